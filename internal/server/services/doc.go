// Package services implements the account server use cases on top of the
// repositories, the refresh-token store and the image blob store.
package services
