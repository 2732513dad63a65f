package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key kinds. Every key a [Keyer] builds starts with one of these, followed
// by a colon, after any scope prefix.
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// LayoutKeyOpts holds everything besides the input that changes a plan.
type LayoutKeyOpts struct {
	Profile          string  `json:"profile"`
	ProfileHash      string  `json:"profile_hash,omitempty"`
	Strategy         string  `json:"strategy"`
	Tolerance        float64 `json:"tolerance"`
	TreadThickness   float64 `json:"tread_thickness"`
	LandingThickness float64 `json:"landing_thickness"`
	HeadClearance    float64 `json:"head_clearance"`
	TopLandingSweep  float64 `json:"top_landing_sweep"`
}

// ArtifactKeyOpts holds everything besides the plan that changes a render.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	View   string  `json:"view,omitempty"`
	Labels bool    `json:"labels,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses the plan computed for an input.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered artifact of a plan.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return digestKey(KindLayout, inputHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return digestKey(KindArtifact, layoutHash, opts)
}

// ScopedKeyer prefixes another keyer's keys so that several deployments
// can share one Redis database.
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(inputHash, opts)
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey joins kind and the SHA-256 of the JSON-encoded parts.
func digestKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
