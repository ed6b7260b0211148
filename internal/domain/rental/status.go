package rental

import "errors"

var ErrUnknownStatus = errors.New("unknown rental status")

// Status codes are persisted as-is, keep them stable.
type Status int16

const (
	StatusReserved Status = 0
	StatusRenting  Status = 1
	StatusReturned Status = 2
	StatusCanceled Status = 3
)

const InitialStatus = StatusReserved

var statusNames = map[Status]string{
	StatusReserved: "reserved",
	StatusRenting:  "renting",
	StatusReturned: "returned",
	StatusCanceled: "canceled",
}

// AllStatuses is ordered by lifecycle precedence.
func AllStatuses() []Status {
	return []Status{StatusReserved, StatusRenting, StatusReturned, StatusCanceled}
}

// ActiveStatuses occupy the stock and take part in the overlap check.
func ActiveStatuses() []Status {
	return []Status{StatusReserved, StatusRenting}
}

// ActiveStatusCodes are the stored codes of ActiveStatuses.
func ActiveStatusCodes() []int16 {
	active := ActiveStatuses()
	codes := make([]int16, 0, len(active))
	for _, s := range active {
		codes = append(codes, s.Code())
	}
	return codes
}

func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return 0, ErrUnknownStatus
}

func StatusFromCode(code int16) (Status, error) {
	s := Status(code)
	if !s.IsValid() {
		return 0, ErrUnknownStatus
	}
	return s, nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Code() int16 {
	return int16(s)
}

func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) IsActive() bool {
	return s == StatusReserved || s == StatusRenting
}

func (s Status) IsTerminal() bool {
	return s == StatusReturned || s == StatusCanceled
}
