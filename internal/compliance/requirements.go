package compliance

// RoleRequirements lists, per staff role, the checks the club expects that
// person to hold. Roles absent from the table have no extra requirements.
var RoleRequirements = map[string][]Field{
	"coach":           {FieldCertificateExpiry, FieldBackgroundCheck},
	"assistant_coach": {FieldCertificateExpiry, FieldBackgroundCheck},
	"escort":          {FieldCertificateExpiry, FieldBackgroundCheck},
}

// Requires reports whether role is expected to hold field.
func Requires(role string, field Field) bool {
	for _, f := range RoleRequirements[role] {
		if f == field {
			return true
		}
	}
	return false
}

// MissingRequirements returns the fields role requires whose check is not applicable.
func MissingRequirements(role string, checks []Check) []Field {
	var missing []Field
	for _, field := range RoleRequirements[role] {
		held := false
		for _, c := range checks {
			if c.Field == field && c.Applicable {
				held = true
				break
			}
		}
		if !held {
			missing = append(missing, field)
		}
	}
	return missing
}
