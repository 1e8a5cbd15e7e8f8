// Package invitesdk provides the wire types and a Go client for the
// invite lifecycle service. The public operations (validate, track view,
// accept, decline) need no authentication; administrative operations take
// a bearer token issued by the platform identity service.
package invitesdk
