package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

type multiHandler []Handler

func (m multiHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range m {
		h.RegisterRoutes(router)
	}
}

// Join combines several handlers into one route registrar for services that
// mount more than one domain on a single router.
func Join(handlers ...Handler) Handler {
	return multiHandler(handlers)
}
