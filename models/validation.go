package models

import "regexp"

var (
	// PhonePattern matches Bangladeshi mobile numbers such as 01712345678.
	PhonePattern = regexp.MustCompile(`^01[3-9]\d{8}$`)
	// TrxIDPattern matches bKash transaction ids.
	TrxIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{10,20}$`)
)
