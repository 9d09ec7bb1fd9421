package figma

import "errors"

// ErrAuth is returned when the Figma API rejects the access token.
var ErrAuth = errors.New("figma: authentication failed")

// ErrNotFound is returned when the requested file does not exist or is not
// visible to the token.
var ErrNotFound = errors.New("figma: file not found")

// ErrTreeTooDeep is returned when the node tree exceeds the depth guard.
var ErrTreeTooDeep = errors.New("figma: node tree exceeds maximum depth")

// ErrTreeTooLarge is returned when the node tree exceeds the size guard.
var ErrTreeTooLarge = errors.New("figma: node tree exceeds maximum node count")
