package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAdvancedConfig(t *testing.T) {
	name, configuration := ParseAdvancedConfig(`
[lab-data]
type = s3
provider = AWS
region = eu-west-1
malformed line
= no key
`)
	assert.EqualValues(t, "lab-data", name)
	assert.EqualValues(t, map[string]string{
		"type":     "s3",
		"provider": "AWS",
		"region":   "eu-west-1",
	}, configuration)
}

func TestFormatAdvancedConfig(t *testing.T) {
	flat := EmptyFlat()
	flat.Name = "lab-data"
	flat.Schema = "s3"
	flat.Provider = "AWS"
	flat.Options = map[string]Value{
		"region":            Plain("eu-west-1"),
		"secret_access_key": PendingSecret(),
		"access_key_id":     Redacted(),
		"endpoint":          Plain(""),
	}
	formatted := FormatAdvancedConfig(flat)
	assert.EqualValues(t, `[lab-data]
type = s3
provider = AWS
access_key_id = `+SavedSecretDisplayValue+`
region = eu-west-1
secret_access_key = `+SensitiveFieldToken+`
`, formatted)

	// Round trip keeps the non-empty keys.
	name, configuration := ParseAdvancedConfig(formatted)
	assert.EqualValues(t, "lab-data", name)
	assert.EqualValues(t, "eu-west-1", configuration["region"])
	assert.EqualValues(t, SensitiveFieldToken, configuration["secret_access_key"])

	assert.EqualValues(t, "", FormatAdvancedConfig(EmptyFlat()))
}
