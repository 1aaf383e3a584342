package tickets

type BatchPolicy string

const (
	// PolicyRaw counts the picks as submitted, before validation.
	PolicyRaw BatchPolicy = "raw"
	// PolicyAccepted counts only the picks that passed validation.
	PolicyAccepted BatchPolicy = "accepted"
)

type Rules struct {
	PicksPerBatch  int
	NumbersPerPick int
	BatchPolicy    BatchPolicy

	EnforceRange bool
	MinNumber    int
	MaxNumber    int
}

func DefaultRules() Rules {
	return Rules{
		PicksPerBatch:  5,
		NumbersPerPick: 6,
		BatchPolicy:    PolicyRaw,
		MinNumber:      1,
		MaxNumber:      60,
	}
}
