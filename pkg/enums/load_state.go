package enums

// LoadState tracks the lifecycle of a one-shot remote fetch.
type LoadState string

const (
	LoadStateIdle    LoadState = "idle"
	LoadStateLoading LoadState = "loading"
	LoadStateLoaded  LoadState = "loaded"
	LoadStateFailed  LoadState = "failed"
)

// String implements fmt.Stringer.
func (s LoadState) String() string {
	return string(s)
}
