package domain

// Collection defaults. The collection holds 768-dimensional vectors
// compared by dot product.
const (
	DefaultCollectionName = "wikisearch"
	DefaultDimensions     = 768
)

// Payload fields with a full-text index or a text filter.
const (
	FieldContent       = "content"
	FieldPageTitle     = "pageTitle"
	FieldHeaderContent = "headerContent"
)

// Distance is the vector similarity metric of a collection.
type Distance string

// Supported distances.
const (
	DistanceDot    Distance = "Dot"
	DistanceCosine Distance = "Cosine"
)

// CollectionSchema describes the single collection holding all datapoints.
type CollectionSchema struct {
	Name       string
	Dimensions int
	Distance   Distance
}

// DefaultCollectionSchema returns the schema for the named collection.
func DefaultCollectionSchema(name string) CollectionSchema {
	if name == "" {
		name = DefaultCollectionName
	}
	return CollectionSchema{
		Name:       name,
		Dimensions: DefaultDimensions,
		Distance:   DistanceDot,
	}
}

// Tokenizer names a full-text tokenizer of the index store.
type Tokenizer string

// TokenizerPrefix indexes every prefix of each word.
const TokenizerPrefix Tokenizer = "prefix"

// TextIndexConfig configures a full-text index on one payload field.
type TextIndexConfig struct {
	FieldName   string
	Tokenizer   Tokenizer
	MinTokenLen int
	MaxTokenLen int
	Lowercase   bool
}

// FullTextIndexConfig returns the text index settings used for every
// indexed field: prefix tokens of 2 to 20 characters, case-insensitive.
func FullTextIndexConfig(field string) TextIndexConfig {
	return TextIndexConfig{
		FieldName:   field,
		Tokenizer:   TokenizerPrefix,
		MinTokenLen: 2,
		MaxTokenLen: 20,
		Lowercase:   true,
	}
}

// Datapoint is one record stored in the index: a fragment payload and its
// embedding under a generated identifier. The fragment's own ID lives only
// in the payload.
type Datapoint struct {
	ID      string
	Payload Fragment
	Vector  []float32
}

// ScoredPoint is a datapoint returned by a search, with its score.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload Fragment
}

// IndexState is the lifecycle state of the collection.
type IndexState string

// Lifecycle states, in rebuild order.
const (
	IndexStateUnknown   IndexState = "unknown"
	IndexStateAbsent    IndexState = "absent"
	IndexStateCreated   IndexState = "created"
	IndexStateIndexed   IndexState = "indexed"
	IndexStatePopulated IndexState = "populated"
)

// String returns the string representation.
func (s IndexState) String() string {
	return string(s)
}
