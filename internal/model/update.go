package model

// UpdateMode selects how an update request treats omitted fields.
type UpdateMode int

const (
    // MergeProvided keeps the stored value for every field the request
    // leaves empty.
    MergeProvided UpdateMode = iota
    // ReplaceAll overwrites every field with the request value, empty or not.
    ReplaceAll
)

func (m UpdateMode) String() string {
    if m == ReplaceAll {
        return "replaceAll"
    }
    return "mergeProvided"
}

// Pick returns the value an update should store for a string field.
func Pick(mode UpdateMode, provided, current string) string {
    if mode == ReplaceAll || provided != "" {
        return provided
    }
    return current
}

// PickInt is Pick for optional integer inputs; nil means "not provided".
func PickInt(mode UpdateMode, provided *int, current int) int {
    if provided != nil {
        return *provided
    }
    if mode == ReplaceAll {
        return 0
    }
    return current
}

// PickID is PickInt for identifiers.
func PickID(mode UpdateMode, provided *uint64, current uint64) uint64 {
    if provided != nil {
        return *provided
    }
    if mode == ReplaceAll {
        return 0
    }
    return current
}
