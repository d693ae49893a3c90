// Package services implements the driving port interfaces.
// Services contain the export pipeline: listing, filtering, detail
// fetching, conversion and assembly. They talk to the outside world only
// through driven ports.
package services
