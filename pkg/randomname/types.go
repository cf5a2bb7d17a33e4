package randomname

// WordType represents the type of word in a name pattern.
type WordType int

// Word types available for name generation.
const (
	Locality WordType = iota
	FirstName
	JobArea
	Adjective
	Noun
)

// Options configures name generation behavior.
type Options struct {
	// Pattern defines the word types to use in order.
	// Default: [Locality, FirstName, JobArea]
	Pattern []WordType

	// Separator between words. Whitespace inside words is always stripped.
	// Default: "-"
	Separator string

	// Lowercase folds the result to lower case.
	Lowercase bool

	// Words extends the built-in dictionaries per WordType.
	Words map[WordType][]string

	// Validator is called to check if a generated name is acceptable.
	// Return true to accept the name, false to generate a new one.
	// The generator will retry up to MaxAttempts times before giving up
	// and returning the last candidate.
	Validator func(string) bool
}

// MaxAttempts bounds the retries spent on a rejecting Validator.
const MaxAttempts = 100

func (o *Options) withDefaults() Options {
	var result Options
	if o != nil {
		result = *o
	}
	if len(result.Pattern) == 0 {
		result.Pattern = []WordType{Locality, FirstName, JobArea}
	}
	if result.Separator == "" {
		result.Separator = "-"
	}
	return result
}
