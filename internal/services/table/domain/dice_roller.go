package domain

// HistoryLimit is how many rolls the history keeps.
const HistoryLimit = 10

// DefaultDifficulty is the roller difficulty of a fresh session.
const DefaultDifficulty = 15

// RollType distinguishes roll records.
type RollType string

const (
	RollDualityType RollType = "duality"
	RollD20Type     RollType = "d20"
	RollDamageType  RollType = "damage"
)

// DiceRoller is the roller panel state.
type DiceRoller struct {
	Modifier    int           `json:"modifier"`
	Advantage   AdvantageMode `json:"advantage"`
	Difficulty  int           `json:"difficulty"`
	Results     *RollRecord   `json:"results"`
	RollHistory []RollRecord  `json:"rollHistory"`
}

// NewDiceRoller returns the roller of a fresh session.
func NewDiceRoller() DiceRoller {
	return DiceRoller{
		Advantage:   AdvantageNormal,
		Difficulty:  DefaultDifficulty,
		RollHistory: []RollRecord{},
	}
}

// RollRecord is one roll in the history. Fields that do not apply to the
// record type are omitted.
type RollRecord struct {
	Type       RollType `json:"type"`
	Hope       int      `json:"hope,omitempty"`
	Fear       int      `json:"fear,omitempty"`
	AdvDie     int      `json:"advDie,omitempty"`
	Roll       int      `json:"roll,omitempty"`
	Dice       string   `json:"dice,omitempty"`
	Rolls      []int    `json:"rolls,omitempty"`
	Modifier   int      `json:"modifier"`
	Total      int      `json:"total"`
	Difficulty int      `json:"difficulty,omitempty"`
	Success    bool     `json:"success,omitempty"`
	Outcome    Outcome  `json:"outcome,omitempty"`
	Doubles    bool     `json:"doubles,omitempty"`
	GainHope   bool     `json:"gainHope,omitempty"`
	GainFear   bool     `json:"gainFear,omitempty"`
	Nat20      bool     `json:"nat20,omitempty"`
	Nat1       bool     `json:"nat1,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
}

func dualityRecord(r DualityResult, stamp string) RollRecord {
	return RollRecord{
		Type:       RollDualityType,
		Hope:       r.Hope,
		Fear:       r.Fear,
		AdvDie:     r.AdvDie,
		Modifier:   r.Modifier,
		Total:      r.Total,
		Difficulty: r.Difficulty,
		Success:    r.Outcome.Success(),
		Outcome:    r.Outcome,
		Doubles:    r.Doubles(),
		GainHope:   r.Outcome.GainsHope(),
		GainFear:   r.Outcome.GainsFear(),
		Timestamp:  stamp,
	}
}

func d20Record(r D20Result, stamp string) RollRecord {
	return RollRecord{
		Type:      RollD20Type,
		Roll:      r.Roll,
		Rolls:     append([]int{}, r.Rolls...),
		Modifier:  r.Modifier,
		Total:     r.Total,
		Nat20:     r.Nat20(),
		Nat1:      r.Nat1(),
		Timestamp: stamp,
	}
}

func damageRecord(r DamageRoll, stamp string) RollRecord {
	return RollRecord{
		Type:      RollDamageType,
		Dice:      r.Dice,
		Rolls:     append([]int{}, r.Rolls...),
		Modifier:  r.Modifier,
		Total:     r.Total,
		Timestamp: stamp,
	}
}

func (r RollRecord) clone() RollRecord {
	if r.Rolls != nil {
		r.Rolls = append([]int{}, r.Rolls...)
	}
	return r
}

// push records r as the latest result, newest first, keeping HistoryLimit.
func (d *DiceRoller) push(r RollRecord) {
	latest := r.clone()
	d.Results = &latest
	history := make([]RollRecord, 0, HistoryLimit)
	history = append(history, r)
	for _, old := range d.RollHistory {
		if len(history) == HistoryLimit {
			break
		}
		history = append(history, old)
	}
	d.RollHistory = history
}

func (d DiceRoller) normalized() DiceRoller {
	d.Advantage = ParseAdvantageMode(string(d.Advantage))
	if d.Difficulty < 1 {
		d.Difficulty = DefaultDifficulty
	}
	if d.RollHistory == nil {
		d.RollHistory = []RollRecord{}
	}
	if len(d.RollHistory) > HistoryLimit {
		d.RollHistory = d.RollHistory[:HistoryLimit]
	}
	return d
}

func (d DiceRoller) clone() DiceRoller {
	if d.Results != nil {
		latest := d.Results.clone()
		d.Results = &latest
	}
	history := make([]RollRecord, len(d.RollHistory))
	for i, r := range d.RollHistory {
		history[i] = r.clone()
	}
	d.RollHistory = history
	return d
}
