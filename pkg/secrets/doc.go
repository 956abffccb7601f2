// Package secrets defines the key/value secret store that holds provider
// credentials. Implementations live in the memory, postgres and redis
// subpackages. A missing secret is reported as ErrNotFound; callers decide
// what absence means.
package secrets
