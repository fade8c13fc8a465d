// Package privacy implements the column-name lexicon, value-pattern
// recognisers, deterministic recoder, bucketing table and suppression
// engine that together decide a column's Classification and how each of
// its values is safely exported (spec.md §4.D-G).
package privacy

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"manifest-extractor/internal/types"
)

// diacriticStripper folds accented letters onto their ASCII base so French
// and Portuguese column names (medecin/médecin, endereco/endereço,
// prontuario/prontuário) match the same lexicon entry regardless of which
// the source file actually used.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// phiPatterns suppress a column's values outright. Multilingual (English,
// French, Portuguese) per the HIPAA eighteen-identifier checklist plus the
// Canadian and Brazilian health-identifier equivalents.
var phiPatterns = []string{
	// names (English)
	"name", "patient", "subject", "first_name", "last_name", "fname", "lname",
	"surname", "given_name", "initials",
	// names (French)
	"nom", "nom_famille", "prenom",
	// names (Portuguese - Brazil)
	"nome", "nome_paciente", "sobrenome",
	// medical record numbers
	"mrn", "medical_record", "chart", "chart_number",
	// Canadian health identifiers
	"phn", "sin", "ohip", "ahcip", "msp", "healthcard", "health_card", "care_card",
	// Quebec health identifiers (French)
	"nas", "nam", "numero_assurance_maladie", "ramq",
	// Brazilian identifiers (Portuguese)
	"cpf", "rg", "sus", "cartao_sus", "cns", "prontuario",
	// US identifiers
	"ssn", "social_security",
	// dates (English)
	"dob", "birth", "birthday", "date_of_birth", "admission_date", "discharge_date",
	"death_date", "date_of_death", "dod",
	// dates (French)
	"naissance", "date_naissance", "ddn",
	// dates (Portuguese - Brazil)
	"nascimento", "data_nascimento", "dt_nasc", "dn",
	// address (English)
	"address", "street", "city", "zip", "postal",
	// address (French)
	"adresse",
	// address (Portuguese - Brazil)
	"endereco", "municipio", "cidade", "cep", "uf",
	// contact (English)
	"phone", "email", "contact", "fax",
	// contact (French)
	"courriel", "telephone", "tel",
	// contact (Portuguese - Brazil)
	"telefone", "fone", "cel", "celular",
	// emergency/family contacts
	"kin", "next_of_kin", "emergency_contact", "guarantor",
	// family (Portuguese - Brazil) -- mother's name used for ID verification
	"mae", "nome_mae", "pai", "nome_pai",
	// healthcare providers (English)
	"provider", "physician", "nurse", "doctor", "attending", "resident",
	// healthcare providers (French)
	"medecin", "md", "infirmier", "infirmiere",
	// healthcare providers (Portuguese - Brazil)
	"medico", "enfermeiro", "enfermeira",
	// abbreviated forms
	"pt_", "_pt", "subj",
	// health plan beneficiary numbers
	"insurance", "policy", "policy_number", "beneficiary", "member_id",
	"subscriber", "group_number", "plan_id",
	// account numbers
	"account", "acct", "account_number", "billing",
	// certificate/license numbers
	"license", "license_number", "certificate", "cert_number", "credential",
	// vehicle identifiers
	"vin", "vehicle", "license_plate", "plate_number",
	// device identifiers
	"serial", "serial_number", "device_id", "imei", "udid", "mac_address",
	// web URLs
	"url", "website", "web_address", "homepage",
	// IP addresses
	"ip_address", "ipv4", "ipv6",
	// biometric identifiers
	"fingerprint", "biometric", "voiceprint", "retina", "iris_scan", "face_id",
	// photographs
	"photo", "photograph", "picture", "headshot", "face_image", "portrait",
}

// phiRecodePatterns identify site/facility columns: anonymized but
// preserved for cross-row analysis rather than suppressed outright.
var phiRecodePatterns = []string{
	"site", "hospital", "clinic", "facility", "center", "location",
	"hopital", "clinique", "centre", "etablissement",
}

// phiWarnOnlyPatterns warrant a warning but do not auto-suppress.
var phiWarnOnlyPatterns = []string{
	"id", "identifier", "code", "number", "encounter", "visit", "admission", "case",
}

// ColumnNameResult is the verdict from checking a column's name.
type ColumnNameResult struct {
	Classification types.Classification
	MatchedPattern string
	Warning        string
}

func safeColumnNameResult() ColumnNameResult {
	return ColumnNameResult{Classification: types.ClassSafe}
}

func phiColumnNameResult(pattern string) ColumnNameResult {
	return ColumnNameResult{
		Classification: types.ClassPhi,
		MatchedPattern: pattern,
		Warning:        fmt.Sprintf("Column name matches PHI pattern '%s'; values suppressed", pattern),
	}
}

func recodeColumnNameResult(pattern string) ColumnNameResult {
	return ColumnNameResult{
		Classification: types.ClassRecode,
		MatchedPattern: pattern,
		Warning:        fmt.Sprintf("Column name matches site-identifying pattern '%s'; values will be recoded", pattern),
	}
}

func warningColumnNameResult(pattern string) ColumnNameResult {
	return ColumnNameResult{
		Classification: types.ClassWarning,
		MatchedPattern: pattern,
		Warning:        fmt.Sprintf("Column name matches potentially sensitive pattern '%s'; review recommended", pattern),
	}
}

// CheckColumnName classifies a column by name alone, checking PHI patterns
// first (most restrictive), then recode patterns, then warn-only patterns.
func CheckColumnName(name string) ColumnNameResult {
	normalized := normalizeColumnName(stripDiacritics(strings.ToLower(name)))

	for _, pattern := range phiPatterns {
		if matchesPattern(normalized, pattern) {
			return phiColumnNameResult(pattern)
		}
	}
	for _, pattern := range phiRecodePatterns {
		if matchesPattern(normalized, pattern) {
			return recodeColumnNameResult(pattern)
		}
	}
	for _, pattern := range phiWarnOnlyPatterns {
		if matchesPattern(normalized, pattern) {
			return warningColumnNameResult(pattern)
		}
	}
	return safeColumnNameResult()
}

// normalizeColumnName replaces common separators with underscores so
// "patient-name", "patient name" and "patient_name" all match the same way.
func normalizeColumnName(name string) string {
	r := strings.NewReplacer("-", "_", " ", "_", ".", "_")
	return r.Replace(name)
}

// matchesPattern applies the prefix/suffix/exact/word-boundary rules a
// normalized column name is checked against.
func matchesPattern(normalized, pattern string) bool {
	if strings.HasSuffix(pattern, "_") {
		return strings.HasPrefix(normalized, pattern)
	}
	if strings.HasPrefix(pattern, "_") {
		return strings.HasSuffix(normalized, pattern)
	}
	if normalized == pattern {
		return true
	}
	for _, part := range strings.Split(normalized, "_") {
		if part == pattern {
			return true
		}
	}
	return strings.HasPrefix(normalized, pattern+"_") ||
		strings.HasSuffix(normalized, "_"+pattern) ||
		strings.Contains(normalized, "_"+pattern+"_")
}
