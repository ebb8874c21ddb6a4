package cache

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey identifies the patterns mined from one database.
	ResultKey(dbHash string, opts ResultKeyOpts) string

	// ArtifactKey identifies a rendered tree of one database.
	ArtifactKey(dbHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts holds every option that changes the mined patterns.
type ResultKeyOpts struct {
	MinSupport int    `json:"min_support"`
	TopK       int    `json:"top_k"`
	MaxLength  int    `json:"max_length"`
	Bound      string `json:"bound"` // bound kind and parameters, canonicalised by the caller
}

// ArtifactKeyOpts holds every option that changes a rendered tree.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	MinSupport int    `json:"min_support"`
	Bound      string `json:"bound"`
}

// DefaultKeyer produces "kind:sha256(parts)" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements [Keyer].
func (DefaultKeyer) ResultKey(dbHash string, opts ResultKeyOpts) string {
	return hashKey("result", dbHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(dbHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dbHash, opts)
}
