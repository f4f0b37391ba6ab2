package enrollment

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse numbers written without a country code
const DefaultPhoneRegion = "IN"

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// PhoneRule validates a phone number for region, empty values pass
func PhoneRule(region string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}

		num, err := phonenumbers.Parse(s, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return validation.NewError("validation_phone", "must be a valid phone number")
		}
		return nil
	})
}

// PincodeRule validates a six digit postal code, empty values pass
var PincodeRule = validation.Match(pincodePattern).Error("must be a valid 6 digit pincode")

func feeLevelValues() []any {
	out := make([]any, 0, len(feeAmounts))
	for _, level := range FeeLevels() {
		out = append(out, string(level))
	}
	return out
}
