package props

import (
	"fmt"
	"strconv"
)

func ParseBoolProp(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

// ValidateProp checks that value is an accepted argument for prop.
func ValidateProp(prop FieldProp, value string) error {
	switch prop {
	case FieldPropKey:
		if value != KeyPropPrimary {
			return fmt.Errorf("key(%s) is not a valid prop; expected key(%s)", value, KeyPropPrimary)
		}
	case FieldPropIndex:
		if _, err := ParseBoolProp(value); err != nil {
			return fmt.Errorf("index(%s) is not a valid prop; expected true or false", value)
		}
	default:
		return fmt.Errorf("Invalid field prop: %s", prop)
	}
	return nil
}
