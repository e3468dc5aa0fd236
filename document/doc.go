// Package document reads and writes YAML descriptions of class maps.
//
// A mapping document is written by Marshal for review. An override file,
// read by Parse or LoadFile, adjusts tables and columns without touching
// the Go types:
//
//	version: "1"
//	overrides:
//	  - entity: User
//	    table: app_users
//	    columns:
//	      Email: email_address
//	    ignore: [Notes]
package document
