package store

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Settings holds the restaurant-wide knobs edited from the admin settings
// page. Checkout reads the live tax rate on every payment, so an edit
// takes effect for the next order without a restart.
type Settings struct {
	RestaurantName string          `json:"restaurant_name"`
	WhatsAppNumber string          `json:"whatsapp_number"`
	CurrencySymbol string          `json:"currency_symbol"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	UPIVPA         string          `json:"upi_vpa"`
}

// SettingsStore guards Settings for concurrent handler access.
type SettingsStore struct {
	mu sync.RWMutex
	s  Settings
}

func NewSettingsStore(s Settings) *SettingsStore {
	return &SettingsStore{s: s}
}

func (st *SettingsStore) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

func (st *SettingsStore) Update(s Settings) Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = s
	return st.s
}

// TaxRate is a convenience for the checkout pipeline.
func (st *SettingsStore) TaxRate() decimal.Decimal {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.TaxRate
}
