package compliance

import "fmt"

// OwnerKind tags which entity a document belongs to.
type OwnerKind string

const (
	OwnerAthlete OwnerKind = "athlete"
	OwnerStaff   OwnerKind = "staff"
)

// OwnerKinds lists every kind a document may belong to.
var OwnerKinds = []OwnerKind{OwnerAthlete, OwnerStaff}

// ParseOwnerKind converts a stored owner type into an OwnerKind.
func ParseOwnerKind(raw string) (OwnerKind, error) {
	for _, k := range OwnerKinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown owner kind %q", raw)
}

// Owner identifies the athlete or staff member a document belongs to.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

func (o Owner) String() string {
	return string(o.Kind) + ":" + o.ID
}
