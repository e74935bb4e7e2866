package domain

// Kind classifies why validation of a candidate server address failed.
// Every kind maps to exactly one fixed user-facing reason string; the
// distinctions beyond the message text exist for logging and metrics.
type Kind string

const (
	KindNone              Kind = ""
	KindSyntaxInvalid     Kind = "syntax_invalid"     // empty, unparseable, or wrong scheme
	KindRemoteUnreachable Kind = "remote_unreachable" // transport failure or non-2xx response
	KindRemoteMalformed   Kind = "remote_malformed"   // unparseable verdict body
	KindRemoteRejected    Kind = "remote_rejected"    // server answered with anything but a true verdict
	KindBridgeNotReady    Kind = "bridge_not_ready"   // host bridge has not signalled readiness
	KindSuperseded        Kind = "superseded"         // outdated by a newer event; nothing to show the user
)

// Fixed user-facing reason strings. The wording is part of the contract with
// the setup form: the field is considered valid exactly when its reason is
// the empty string, and these are the only non-empty values ever written.
const (
	ReasonEnterURL      = "Please enter a URL."
	ReasonProvideURL    = "Please provide a CatDV web panel URL."
	ReasonHTTPURL       = "Please enter a HTTP URL."
	ReasonChecking      = "Checking for CatDV Server…"
	ReasonUnverifiable  = "Could not verify that entered URL is a CatDV Server."
	ReasonNotRecognised = "URL isn't recognised as a CatDV Server."
	ReasonBridgeWait    = "CatDV panel is still starting up. Please wait a moment and try again."
)

// Result is the outcome of one validation stage. A valid Result carries an
// empty Reason; a failing Result carries the fixed reason for its Kind,
// except KindSuperseded, which has nothing to show the user.
type Result struct {
	Valid  bool
	Kind   Kind
	Reason string
}

// OK returns a passing result.
func OK() Result {
	return Result{Valid: true}
}

// Fail returns a failing result with the given classification and reason.
func Fail(kind Kind, reason string) Result {
	return Result{Kind: kind, Reason: reason}
}

// Verdict is the decoded response body of the validation endpoint. The
// field is loosely typed: anything other than the JSON boolean true,
// including a missing, null, or wrong-typed field, reads as a rejection.
type Verdict struct {
	ValidationResult any `json:"validation_result"`
}

// True reports whether the verdict is the JSON boolean true.
func (v Verdict) True() bool {
	b, ok := v.ValidationResult.(bool)
	return ok && b
}
