package domain

// Resource names a remote metadata collection.
type Resource string

const (
	ResourceObservatories Resource = "observatories"
	ResourceDefinitives   Resource = "definitives"
)

// Resources lists every fetched resource in display order.
func Resources() []Resource {
	return []Resource{ResourceObservatories, ResourceDefinitives}
}

// FetchState is the lifecycle of one resource within a fetch cycle:
// Idle → Loading → Loaded | Errored.
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

func (s FetchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
