package domain

// DamageSeverity is the tier incoming damage lands in.
type DamageSeverity int

const (
	DamageNone DamageSeverity = iota
	DamageMinor
	DamageMajor
	DamageSevere
)

func (s DamageSeverity) String() string {
	switch s {
	case DamageMinor:
		return "minor"
	case DamageMajor:
		return "major"
	case DamageSevere:
		return "severe"
	default:
		return "none"
	}
}

// DamageResult is the severity and the HP marks it costs.
type DamageResult struct {
	Severity DamageSeverity
	Marks    int
}

// DamageApplication records what a hit did to a sheet.
type DamageApplication struct {
	Amount     int
	Result     DamageResult
	HPBefore   int
	HPAfter    int
	ArmorSpent int
}

// EvaluateDamage maps an amount to severity using the sheet thresholds.
// A non-positive severe threshold disables the severe tier.
func EvaluateDamage(amount, majorThreshold, severeThreshold int) DamageResult {
	if amount <= 0 {
		return DamageResult{Severity: DamageNone}
	}
	if severeThreshold > 0 && amount >= severeThreshold {
		return DamageResult{Severity: DamageSevere, Marks: 3}
	}
	if majorThreshold > 0 && amount >= majorThreshold {
		return DamageResult{Severity: DamageMajor, Marks: 2}
	}
	return DamageResult{Severity: DamageMinor, Marks: 1}
}

// ReduceDamageWithArmor lowers severity by one tier.
func ReduceDamageWithArmor(result DamageResult) DamageResult {
	if result.Marks <= 0 {
		return result
	}
	result.Severity--
	result.Marks--
	return result
}

// ApplyDamageMarks reduces current HP by marks, flooring at zero.
func ApplyDamageMarks(currentHP, marks int) (before, after int) {
	before = currentHP
	if marks <= 0 {
		return before, before
	}
	return before, max(currentHP-marks, 0)
}
