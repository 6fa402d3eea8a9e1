// Package seed loads a store's initial state from a JSON or YAML file on
// disk or in S3.
//
// Sources:
//
//	seed.json
//	seed.yaml
//	s3://bucket/path/seed.json
//
// Whole JSON numbers at the top level are converted to int so seeded
// values behave like values written in Go.
package seed
