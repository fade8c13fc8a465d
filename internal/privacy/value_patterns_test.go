package privacy

import "testing"

func TestCheckValuePatternEmail(t *testing.T) {
	for _, v := range []string{"john.doe@example.com", "test@test.org", "user123@company.co.uk"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternPhone(t *testing.T) {
	for _, v := range []string{"555-123-4567", "5551234567", "(555) 123-4567", "555.123.4567"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternSSN(t *testing.T) {
	for _, v := range []string{"123-45-6789", "123456789"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternUSZip(t *testing.T) {
	for _, v := range []string{"12345", "12345-6789"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternCanadaPostal(t *testing.T) {
	for _, v := range []string{"K1A 0B1", "M5V3L9"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternLongID(t *testing.T) {
	for _, v := range []string{"ABC123DEF456", "Patient12345", "A1B2C3D4E5F6"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
	if CheckValuePattern("ABCDEFGHIJKL").IsPHI {
		t.Errorf("all-letter long ID should not be flagged")
	}
	if CheckValuePattern("123456789012").IsPHI {
		t.Errorf("all-digit long ID should not be flagged")
	}
}

func TestCheckValuePatternSafeValues(t *testing.T) {
	for _, v := range []string{"42", "Male", "Treatment A", "2024-01-15", "3.14159", "", "   ", "AB12", "Group1"} {
		if CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = true, want false", v)
		}
	}
}

func TestCheckValuePatternURL(t *testing.T) {
	for _, v := range []string{"https://example.com/patient/123", "http://hospital.org/records"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternIPv4(t *testing.T) {
	for _, v := range []string{"192.168.1.1", "10.0.0.255"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternIPv6(t *testing.T) {
	if !CheckValuePattern("2001:0db8:85a3:0000:0000:8a2e:0370:7334").IsPHI {
		t.Errorf("IPv6 value should be flagged")
	}
}

func TestCheckValuePatternMACAddress(t *testing.T) {
	for _, v := range []string{"00:1A:2B:3C:4D:5E", "00-1A-2B-3C-4D-5E"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternName(t *testing.T) {
	for _, v := range []string{"Smith", "John", "Maria", "Tremblay", "Mary Smith", "John Johnson", "Jose Silva", "Muhammad", "Aaliyah"} {
		if !CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = false, want true", v)
		}
	}
}

func TestCheckValuePatternNonNames(t *testing.T) {
	for _, v := range []string{"Treatment", "Control", "Placebo", "Baseline"} {
		if CheckValuePattern(v).IsPHI {
			t.Errorf("CheckValuePattern(%q).IsPHI = true, want false", v)
		}
	}
}
