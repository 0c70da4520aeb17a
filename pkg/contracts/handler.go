package contracts

import "github.com/julienschmidt/httprouter"

// Handler is a group of routes mounted by pkg/app, either on the public
// health router or behind the authenticated API middleware.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
