// Package server hosts the Fiber HTTP service, request middleware chain, and
// origin registry glue that wires Host resolution into the file-backed origin
// backends. The binary bootstraps Fiber, attaches logging and error
// middlewares, injects the OriginRegistry built from config, and exposes
// router constructors that other packages (main, gateway) can reuse.
// Future phases may extend this package with TLS, metrics endpoints, or admin
// surfaces, so keep exports narrow and accept explicit dependencies.
package server
