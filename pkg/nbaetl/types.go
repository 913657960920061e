package nbaetl

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LoadMode selects how the orchestrator treats existing rows.
type LoadMode int

const (
	// LoadModeFullRefresh drops and recreates every table before inserting.
	LoadModeFullRefresh LoadMode = iota + 1
	// LoadModeUpsert replaces only the keys present in the incoming batch.
	LoadModeUpsert
)

func (m LoadMode) String() string {
	switch m {
	case LoadModeFullRefresh:
		return "FULL_REFRESH"
	case LoadModeUpsert:
		return "UPSERT"
	default:
		return fmt.Sprintf("LoadMode(%d)", int(m))
	}
}

// IsValid reports whether m is one of the declared modes.
func (m LoadMode) IsValid() bool {
	return m == LoadModeFullRefresh || m == LoadModeUpsert
}

// ParseLoadMode accepts FULL_REFRESH or UPSERT in any case, with '-' in place of '_'.
func ParseLoadMode(s string) (LoadMode, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch normalized {
	case "FULL_REFRESH":
		return LoadModeFullRefresh, nil
	case "UPSERT":
		return LoadModeUpsert, nil
	default:
		return 0, fmt.Errorf("unknown load mode %q (expected FULL_REFRESH or UPSERT): %w", s, ErrInvalidConfig)
	}
}

// Category groups validation rules.
type Category int

const (
	CategoryDuplicates Category = iota + 1
	CategoryReferentialIntegrity
	CategoryMissingOrMalformed
	CategoryConsistency
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryDuplicates,
	CategoryReferentialIntegrity,
	CategoryMissingOrMalformed,
	CategoryConsistency,
}

func (c Category) String() string {
	switch c {
	case CategoryDuplicates:
		return "Duplicates"
	case CategoryReferentialIntegrity:
		return "Referential Integrity"
	case CategoryMissingOrMalformed:
		return "Missing/Malformed Data"
	case CategoryConsistency:
		return "Consistency"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Severity classifies a finding.
type Severity int

const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Outcome is the result of executing a single rule.
type Outcome int

const (
	OutcomePass Outcome = iota + 1
	OutcomeWarning
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeWarning:
		return "warning"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// OutcomeFor maps a rule's severity and offending row count to its outcome.
func OutcomeFor(severity Severity, offending int) Outcome {
	if offending == 0 {
		return OutcomePass
	}
	switch severity {
	case SeverityError:
		return OutcomeError
	case SeverityWarning:
		return OutcomeWarning
	default:
		return OutcomePass
	}
}

// Verdict is the aggregate result of a validation run.
type Verdict int

const (
	VerdictPass Verdict = iota + 1
	VerdictPassWithWarnings
	VerdictFail
)

func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "PASS"
	case VerdictPassWithWarnings:
		return "PASS_WITH_WARNINGS"
	case VerdictFail:
		return "FAIL"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// LoadConfig contains the parameters of one load run. It is passed by value
// and never mutated by the engine.
type LoadConfig struct {
	// Mode selects FULL_REFRESH or UPSERT.
	Mode LoadMode

	// MaxParametersPerStatement is the store's bound-parameter ceiling used to
	// size insert and delete chunks. Zero means the store dialect's ceiling.
	MaxParametersPerStatement int
}

// Validate checks the configuration and returns every problem found.
func (c LoadConfig) Validate() error {
	var errs []error

	if !c.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("load mode %v is not FULL_REFRESH or UPSERT: %w", c.Mode, ErrInvalidConfig))
	}

	if c.MaxParametersPerStatement < 0 {
		errs = append(errs, fmt.Errorf("max parameters per statement cannot be negative: %w", ErrInvalidConfig))
	}

	if c.MaxParametersPerStatement > MaxPostgresParameters {
		errs = append(errs, fmt.Errorf("max parameters per statement %d exceeds %d: %w",
			c.MaxParametersPerStatement, MaxPostgresParameters, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ValidationConfig contains the parameters of one validation run.
type ValidationConfig struct {
	// ExampleLimit caps the example rows kept per failing rule.
	// Zero means DefaultExampleLimit.
	ExampleLimit int

	// Now anchors time-relative rules. Zero means the time the run starts.
	Now time.Time

	// IncludeExtended adds the opt-in rules that are not part of the default battery.
	IncludeExtended bool
}

// Validate checks the configuration and returns every problem found.
func (c ValidationConfig) Validate() error {
	if c.ExampleLimit < 0 {
		return fmt.Errorf("example limit cannot be negative: %w", ErrInvalidConfig)
	}
	return nil
}

// EffectiveExampleLimit returns ExampleLimit or the default when unset.
func (c ValidationConfig) EffectiveExampleLimit() int {
	if c.ExampleLimit == 0 {
		return DefaultExampleLimit
	}
	return c.ExampleLimit
}

// MarshalText lets the enumerations render by name in JSON reports.
func (m LoadMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
