package domain

// CardType - тип карты в колоде
type CardType string

const (
	CardTimeBonus CardType = "timeBonus"
	CardCurse     CardType = "curse"
	CardPowerup   CardType = "powerup"
)

// Card - статический контент колоды. Value интерпретируется по типу:
// timeBonus - бонусные секунды, curse - длительность в минутах.
type Card struct {
	ID          string   `json:"id"`
	Type        CardType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Value       int      `json:"value,omitempty"`
	Effect      string   `json:"effect,omitempty"` // powerup tag, opaque to the core
}
