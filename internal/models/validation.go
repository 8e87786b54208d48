package models

// PromoValidation is the engine's answer for a submitted code. Reason is a
// stable snake_case string suitable for client display mapping; it is empty
// when Valid is true.
type PromoValidation struct {
	Valid    bool   `json:"valid"`
	Discount int    `json:"discount,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
