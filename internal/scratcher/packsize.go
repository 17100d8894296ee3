package scratcher

import (
	"fmt"
	"strconv"
	"strings"
)

// PackSizeTable: bilet yüzü fiyatı (dolar) -> paketteki bilet sayısı.
// Tablo config'den gelir (SCR_PACK_SIZES), eyalete göre değişebilir.
type PackSizeTable map[float64]int

// ParsePackSizeTable: "1:240,2:100,5:80" formatındaki string'i tabloya çevir.
func ParsePackSizeTable(s string) (PackSizeTable, error) {
	table := make(PackSizeTable)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("geçersiz paket boyutu girdisi: %q", pair)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("geçersiz fiyat: %q", parts[0])
		}
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("geçersiz bilet sayısı: %q", parts[1])
		}
		table[price] = count
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("paket boyutu tablosu boş")
	}
	return table, nil
}

// SizeFor: fiyata karşılık gelen paket boyutu. Bilinmeyen fiyatta ok=false;
// bu durumda EndTicket türetilemez ve hesaplama unknown_pack_size ile işaretlenir.
func (t PackSizeTable) SizeFor(price float64) (int, bool) {
	n, ok := t[price]
	return n, ok
}

// deriveEndTicket: startTicket + paketBoyutu - 1, baştaki sıfır dolgusu korunarak.
// Ör: start "001", boyut 80 -> "080".
func deriveEndTicket(startTicket string, size int) string {
	n, err := strconv.Atoi(startTicket)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%0*d", len(startTicket), n+size-1)
}

// isNumericTicket: boş olmayan, tamamen rakamlardan oluşan string mi?
func isNumericTicket(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
