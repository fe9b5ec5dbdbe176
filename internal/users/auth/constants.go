// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package auth

// # Authentication Constraints

const (
	// PasswordMinLength is the minimum accepted password length at signup
	// and during password reset.
	PasswordMinLength = 8

	// UsernameMinLength keeps usernames readable and collision-resistant.
	UsernameMinLength = 3

	// UsernameMaxLength bounds display rendering and index size.
	UsernameMaxLength = 32
)

// # Mail Templates

const (
	// VerificationMailSubject heads the account verification message.
	VerificationMailSubject = "Verify your Bookly account"

	// ResetMailSubject heads the password reset message.
	ResetMailSubject = "Reset your Bookly password"
)
