// Package docs registers the league tracker API description with swag so
// http-swagger can serve it at /swagger/doc.json.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var doc string

type apiDoc struct{}

func (apiDoc) ReadDoc() string { return doc }

func init() {
	swag.Register(swag.Name, apiDoc{})
}
