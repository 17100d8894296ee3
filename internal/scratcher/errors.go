package scratcher

// Servis katmanı fiber'dan bağımsız; handler'lar bu hata tiplerini
// HTTP durum kodlarına çevirir.

// NotFoundError: referans verilen kayıt yok (yapısal hata, 404).
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ValidationError: eksik/geçersiz girdi, hiçbir şey yazılmadı (400).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RolloverSlot: rulo değişimi gereken göz (yapılandırılmış ret gövdesi).
type RolloverSlot struct {
	SlotID     uint   `json:"slot_id"`
	SlotNumber int    `json:"slot_number"`
	StartValue string `json:"start_value"`
	EndValue   string `json:"end_value"`
}

// RolloverRequiredError: vardiya sonu okuması, başlangıçtaki paket hâlâ
// aktifken daha düşük bir bilet numarası içeriyor. Paket değişimi kayda
// geçmeden okuma kabul edilmez; kullanıcı aktivasyon akışına yönlendirilir.
// Bu beklenen bir iş kuralı reddi, istisnai bir durum değil (409).
type RolloverRequiredError struct {
	Slots []RolloverSlot
}

func (e *RolloverRequiredError) Error() string {
	return "rulo değişimi kaydedilmeden vardiya sonu okuması kabul edilemez"
}
