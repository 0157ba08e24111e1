package domain

// Messages reported by Validate, in the order the checks run.
const (
	MsgFamilyMemberRequired   = "family member is required"
	MsgPackageTypeRequired    = "package type is required"
	MsgAddressesRequired      = "at least one address is required"
	MsgOriginRequired         = "origin address is required"
	MsgDestinationRequired    = "destination address is required"
	MsgOriginCoordinates      = "origin coordinates are missing"
	MsgDestinationCoordinates = "destination coordinates are missing"
)

// Outcome of validating user input. Errors keeps the order checks ran in.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func newValidationResult(errs []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// Validate runs every address-page check independently and collects one
// message per failed check.
func Validate(data AddressData) ValidationResult {
	var errs []string

	if isBlank(data.FamilyMemberID) {
		errs = append(errs, MsgFamilyMemberRequired)
	}
	if isBlank(data.PackageType) {
		errs = append(errs, MsgPackageTypeRequired)
	}
	if len(data.Addresses) == 0 {
		errs = append(errs, MsgAddressesRequired)
	}

	from := firstWithRole(data.Addresses, RoleFrom)
	to := firstWithRole(data.Addresses, RoleTo)

	if from == nil || !from.HasAddress() {
		errs = append(errs, MsgOriginRequired)
	}
	if to == nil || !to.HasAddress() {
		errs = append(errs, MsgDestinationRequired)
	}
	if from == nil || from.Coordinate == nil {
		errs = append(errs, MsgOriginCoordinates)
	}
	if to == nil || to.Coordinate == nil {
		errs = append(errs, MsgDestinationCoordinates)
	}

	return newValidationResult(errs)
}

func firstWithRole(points []RoutePoint, role PointRole) *RoutePoint {
	for i := range points {
		if points[i].Role == role {
			return &points[i]
		}
	}
	return nil
}
