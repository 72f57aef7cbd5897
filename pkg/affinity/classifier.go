package affinity

import "errors"

// ErrNilType is returned when the classifier is called without a type.
var ErrNilType = errors.New("affinity: type must not be nil")

// Well-known shell member and type names.
const (
	getServiceName      = "GetService"
	packageTypeName     = "Package"
	serviceProviderName = "ServiceProvider"
)

// Classifier decides whether a symbol must only be used on the main thread.
type Classifier struct {
	cfg *Config
}

// NewClassifier returns a classifier for the given session configuration.
func NewClassifier(cfg *Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// RequiresMainThread classifies member m of type t. A nil m only disables the
// shell member rules; a nil t is a caller bug and returns ErrNilType.
func (c *Classifier) RequiresMainThread(t Type, m Member) (bool, error) {
	if t == nil {
		return false, ErrNilType
	}

	if t.IsInterface() && t.Assembly() != "" && c.cfg.MatchesRequiringPrefix(t.Assembly()) {
		return true, nil
	}

	if m == nil || t.Namespace() != c.cfg.ShellPackage() {
		return false, nil
	}

	if m.Name() == getServiceName && t.Name() == packageTypeName {
		return true, nil
	}

	return !m.IsStatic() && t.Name() == serviceProviderName, nil
}
