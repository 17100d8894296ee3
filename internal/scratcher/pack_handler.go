package scratcher

import (
	"fmt"

	"tekel-backend/internal/audit"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ActivatePackRequest struct {
	SlotID        uint   `json:"slot_id"`
	ProductID     uint   `json:"product_id"`
	PackCode      string `json:"pack_code"`
	StartTicket   string `json:"start_ticket"`
	ReceiptFileID string `json:"receipt_file_id"`
}

type PackResponse struct {
	ID            uint    `json:"id"`
	StoreID       uint    `json:"store_id"`
	SlotID        uint    `json:"slot_id"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `json:"product_name,omitempty"`
	PackCode      string  `json:"pack_code"`
	StartTicket   string  `json:"start_ticket"`
	EndTicket     string  `json:"end_ticket"`
	TicketPrice   float64 `json:"ticket_price"`
	Status        string  `json:"status"`
	ActivatedAt   string  `json:"activated_at"`
	ActivatedBy   uint    `json:"activated_by"`
	ReceiptFileID string  `json:"receipt_file_id"`
	EndedAt       *string `json:"ended_at"`
	EndedBy       *uint   `json:"ended_by"`
}

func toPackResponse(pack models.ScratcherPack) PackResponse {
	resp := PackResponse{
		ID:            pack.ID,
		StoreID:       pack.StoreID,
		SlotID:        pack.SlotID,
		ProductID:     pack.ProductID,
		ProductName:   pack.Product.Name,
		PackCode:      pack.PackCode,
		StartTicket:   pack.StartTicket,
		EndTicket:     pack.EndTicket,
		TicketPrice:   pack.TicketPrice,
		Status:        string(pack.Status),
		ActivatedAt:   pack.ActivatedAt.Format("2006-01-02 15:04:05"),
		ActivatedBy:   pack.ActivatedByUserID,
		ReceiptFileID: pack.ActivationReceiptFileID,
		EndedBy:       pack.EndedByUserID,
	}
	if pack.EndedAt != nil {
		formatted := pack.EndedAt.Format("2006-01-02 15:04:05")
		resp.EndedAt = &formatted
	}
	return resp
}

// POST /api/scratchers/packs/activate
func ActivatePackHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ActivatePackRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.SlotID == 0 || body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "slot_id ve product_id zorunlu")
		}

		if err := checkSlotStore(c, body.SlotID); err != nil {
			return err
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		pack, err := svc.ActivatePack(ActivatePackInput{
			SlotID:        body.SlotID,
			ProductID:     body.ProductID,
			PackCode:      body.PackCode,
			StartTicket:   body.StartTicket,
			ReceiptFileID: body.ReceiptFileID,
			ActingUserID:  userID,
		})
		if err != nil {
			return toHTTPError(err, "Paket aktive edilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &pack.StoreID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "scratcher_pack",
			EntityID:    pack.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Paket aktivasyonu: göz %d, bilet %s-%s", pack.SlotID, pack.StartTicket, pack.EndTicket),
			After:       pack,
		})

		return c.Status(fiber.StatusCreated).JSON(toPackResponse(*pack))
	}
}

type ReturnPackRequest struct {
	ReceiptFileID string `json:"receipt_file_id"`
	Note          string `json:"note"`
}

// POST /api/scratchers/packs/:id/return
func ReturnPackHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		packID, err := c.ParamsInt("id")
		if err != nil || packID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz paket ID")
		}

		var body ReturnPackRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := checkPackStore(c, uint(packID)); err != nil {
			return err
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		pack, err := svc.ReturnPack(uint(packID), body.ReceiptFileID, body.Note, userID)
		if err != nil {
			return toHTTPError(err, "Paket iade edilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &pack.StoreID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "scratcher_pack",
			EntityID:    pack.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Paket iadesi: göz %d", pack.SlotID),
			After:       pack,
		})

		return c.JSON(toPackResponse(*pack))
	}
}

type AddPackEventRequest struct {
	EventType string  `json:"event_type"`
	Note      string  `json:"note"`
	FileID    *string `json:"file_id"`
}

// POST /api/scratchers/packs/:id/events
func AddPackEventHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		packID, err := c.ParamsInt("id")
		if err != nil || packID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz paket ID")
		}

		var body AddPackEventRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := checkPackStore(c, uint(packID)); err != nil {
			return err
		}

		userID, _, err := getUserInfo(c)
		if err != nil {
			return err
		}

		event, err := svc.AddPackEvent(uint(packID), models.PackEventType(body.EventType), body.Note, body.FileID, userID)
		if err != nil {
			return toHTTPError(err, "Olay eklenemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toEventResponse(*event))
	}
}

type PackEventResponse struct {
	ID        uint    `json:"id"`
	StoreID   uint    `json:"store_id"`
	PackID    uint    `json:"pack_id"`
	EventType string  `json:"event_type"`
	Note      string  `json:"note"`
	FileID    *string `json:"file_id"`
	CreatedBy uint    `json:"created_by"`
	CreatedAt string  `json:"created_at"`
}

func toEventResponse(event models.ScratcherPackEvent) PackEventResponse {
	return PackEventResponse{
		ID:        event.ID,
		StoreID:   event.StoreID,
		PackID:    event.PackID,
		EventType: string(event.EventType),
		Note:      event.Note,
		FileID:    event.FileID,
		CreatedBy: event.CreatedByUserID,
		CreatedAt: event.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/scratchers/packs
func ListPacksHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		packs, err := svc.ListPacks(storeID)
		if err != nil {
			return toHTTPError(err, "Paketler listelenemedi")
		}

		resp := make([]PackResponse, 0, len(packs))
		for _, pack := range packs {
			resp = append(resp, toPackResponse(pack))
		}
		return c.JSON(resp)
	}
}

// GET /api/scratchers/events?limit=100
func ListEventsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 100)

		events, err := svc.ListEvents(storeID, limit)
		if err != nil {
			return toHTTPError(err, "Olaylar listelenemedi")
		}

		resp := make([]PackEventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, toEventResponse(event))
		}
		return c.JSON(resp)
	}
}

// GET /api/scratchers/packs/:id/events
func ListPackEventsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		packID, err := c.ParamsInt("id")
		if err != nil || packID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz paket ID")
		}

		if err := checkPackStore(c, uint(packID)); err != nil {
			return err
		}

		events, err := svc.ListPackEvents(uint(packID))
		if err != nil {
			return toHTTPError(err, "Olaylar listelenemedi")
		}

		resp := make([]PackEventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, toEventResponse(event))
		}
		return c.JSON(resp)
	}
}
