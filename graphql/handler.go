package graphql

import (
	"net/http"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"
)

// NewHandler builds the /graphql HTTP handler.
func NewHandler(db *gorm.DB) http.Handler {
	schema := gql.MustParseSchema(Schema(), &RootResolver{DB: db})
	return &relay.Handler{Schema: schema}
}
