package validation

import (
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"tenant@mydomainliving.co.za",
		"first.last@example.com",
		"a@b.co",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"missing@domain",
		"spaces in@example.com",
		"@example.com",
		"user@",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), "expected %q to be invalid", email)
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{
		"0612345678",
		"0712345678",
		"0812345678",
		"+27612345678",
		"+27712345678",
		"+27812345678",
	}
	for _, phone := range valid {
		assert.True(t, IsValidPhoneNumber(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"0912345678",  // leading digit outside 6-8
		"0512345678",  // leading digit outside 6-8
		"061234567",   // too short
		"06123456789", // too long
		"+28612345678",
		"27612345678",
		"061234567a",
	}
	for _, phone := range invalid {
		assert.False(t, IsValidPhoneNumber(phone), "expected %q to be invalid", phone)
	}
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("12345678"))
	assert.True(t, IsStrongPassword("longerpassword"))
	assert.True(t, IsStrongPassword("!!!!!!!!"))

	assert.False(t, IsStrongPassword(""))
	assert.False(t, IsStrongPassword("1234567"))
	assert.False(t, IsStrongPassword("Ab1!"))
}

func TestGenerateWaitingNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^REQ-\d{6}-\d{3}$`)
	for i := 0; i < 20; i++ {
		number := GenerateWaitingNumber()
		assert.Regexp(t, pattern, number)
	}
}

func TestGenerateTenantCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{3}\d{4}A101$`)
	code := GenerateTenantCode("Thabo", "A-101")
	assert.Regexp(t, pattern, code)

	// Names shorter than three letters are used as-is, no padding.
	short := GenerateTenantCode("Bo", "12")
	assert.Regexp(t, regexp.MustCompile(`^BO\d{4}12$`), short)

	// Accented names keep whole characters in the prefix
	accented := GenerateTenantCode("Émile", "B202")
	assert.True(t, utf8.ValidString(accented))
	assert.Regexp(t, regexp.MustCompile(`^ÉMI\d{4}B202$`), accented)
}
