package file

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"roster/backend/foundation/web"
)

var ErrFileNotFound = errors.New("file not found")

// Controller serves stored uploads back to operators. Directory listings are
// never served.
type Controller struct {
	fs http.FileSystem
}

func NewController(root string) *Controller {
	return &Controller{fs: gin.Dir(root, false)}
}

func (cf Controller) File(c *web.Context) error {
	name := c.Param("filepath")
	if strings.Trim(name, "/") == "" {
		return c.RespondError(web.NewRequestError(ErrFileNotFound, http.StatusNotFound))
	}

	f, err := cf.fs.Open(name)
	if err != nil {
		return c.RespondError(web.NewRequestError(ErrFileNotFound, http.StatusNotFound))
	}
	stat, err := f.Stat()
	f.Close()
	if err != nil || stat.IsDir() {
		return c.RespondError(web.NewRequestError(ErrFileNotFound, http.StatusNotFound))
	}

	c.FileFromFS(name, cf.fs)
	return nil
}
