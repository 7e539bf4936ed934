// Package core defines the domain model, store contracts, configuration, and
// error envelope shared by the booking webhook ingestion packages.
package core
