package contracts

import "github.com/julienschmidt/httprouter"

// Handler is what the application shell mounts: each domain handler wires its
// own routes onto the shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
