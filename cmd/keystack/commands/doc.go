// Package commands implements the keystack CLI.
//
// Every command prints JSON on stdout. Failures are printed on stderr; for
// license server errors that includes the HTTP status and the server's
// details.
//
//	keystack activate ABC-123 --machine-id 4c4c4544
//	keystack validate ABC-123
//	keystack deactivate --activation-id xyz
//	keystack manifest pricing-table --get plans.pro.price
//	keystack token show
package commands
