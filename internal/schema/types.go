package schema

// FieldInfo describes a single column of a table or a top-level field of a
// sampled document.
type FieldInfo struct {
	Name         string
	DataType     string // postgres type name, or the BSON type of the sampled value
	IsNullable   bool
	IsPrimaryKey bool
	IsUnique     bool
	DefaultValue *string // nil if no default
	MaxLength    *int    // nil for non-char types
}

// SourceInfo describes a table or a collection and its fields
type SourceInfo struct {
	Namespace string // postgres schema or mongodb database
	Name      string
	Fields    []FieldInfo
}
