// Package recall provides the read path over ingested data: semantic
// lookup of a user's archived exchanges and traversal of their strongest
// word associations.
package recall
