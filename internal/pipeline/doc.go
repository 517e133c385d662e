// Package pipeline drives a versioning run end to end: hash, clean, flag,
// bin, split, temporal check, validate, then write the artifacts. Stages
// consume the immutable output of the previous stage; nothing is written to
// disk until every fatal precondition and validation check has passed.
package pipeline
