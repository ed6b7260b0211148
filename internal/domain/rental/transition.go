package rental

type TransitionResult struct {
	Allowed bool
	Message string
}

func (r TransitionResult) Violations() Violations {
	var v Violations
	if !r.Allowed {
		v.Add(FieldStatus, r.Message)
	}
	return v
}

type transitionKey struct {
	from Status
	to   Status
}

// Pairs missing from the table are denied. Returned and Canceled have no outgoing edges.
var transitions = map[transitionKey]string{
	{StatusReserved, StatusReserved}: "",
	{StatusReserved, StatusRenting}:  "",
	{StatusReserved, StatusCanceled}: "",
	{StatusReserved, StatusReturned}: "a reserved rental cannot be marked as returned",

	{StatusRenting, StatusRenting}:  "",
	{StatusRenting, StatusReturned}: "",
	{StatusRenting, StatusReserved}: "a rental in progress cannot go back to reserved",
	{StatusRenting, StatusCanceled}: "a rental in progress cannot be canceled",

	{StatusReturned, StatusReturned}: "",
	{StatusCanceled, StatusCanceled}: "",
}

const (
	msgTerminal      = "the rental is already closed and its status cannot change"
	msgUnknownStatus = "unknown rental status"
)

func ValidateStatusTransition(current, requested Status) TransitionResult {
	if !current.IsValid() || !requested.IsValid() {
		return TransitionResult{Message: msgUnknownStatus}
	}

	msg, ok := transitions[transitionKey{current, requested}]
	switch {
	case ok && msg == "":
		return TransitionResult{Allowed: true}
	case ok:
		return TransitionResult{Message: msg}
	case current.IsTerminal():
		return TransitionResult{Message: msgTerminal}
	default:
		return TransitionResult{Message: msgUnknownStatus}
	}
}

// NextStatuses lists the statuses an edit form may offer for the current one.
func NextStatuses(current Status) []Status {
	var out []Status
	for _, s := range AllStatuses() {
		if ValidateStatusTransition(current, s).Allowed {
			out = append(out, s)
		}
	}
	return out
}
