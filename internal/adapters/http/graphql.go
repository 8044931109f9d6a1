package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/logging"
)

func poiToMap(p domain.PointOfInterest) map[string]interface{} {
	return map[string]interface{}{
		"id":          strconv.FormatInt(p.ID, 10),
		"name":        p.Name,
		"description": p.Description,
		"lat":         p.Location.Lat,
		"lng":         p.Location.Lng,
	}
}

func gqlID(p graphql.ResolveParams) (int64, error) {
	raw, _ := p.Args["id"].(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}
	return id, nil
}

// gqlInput builds a POIInput from mutation arguments. Absent lat/lng stay
// nil so the service reports them as missing.
func gqlInput(p graphql.ResolveParams) domain.POIInput {
	in := domain.POIInput{}
	in.Name, _ = p.Args["name"].(string)
	in.Description, _ = p.Args["description"].(string)
	if v, ok := p.Args["lat"].(float64); ok {
		in.Lat = &v
	}
	if v, ok := p.Args["lng"].(float64); ok {
		in.Lng = &v
	}
	return in
}

// gqlError hides internal failures behind the same static message the REST
// routes use.
func gqlError(p graphql.ResolveParams, err error) error {
	if domain.KindOf(err) == domain.KindInternal {
		logging.FromContext(p.Context).Error("graphql resolve failed",
			"field", p.Info.FieldName,
			"error", err,
		)
		return errors.New(errorTable[domain.KindInternal].message)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return errors.New(de.Message)
	}
	return err
}

// buildSchema creates the GraphQL schema wired to the POI service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	poiType := graphql.NewObject(graphql.ObjectConfig{
		Name: "POI",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"lat":         &graphql.Field{Type: graphql.Float},
			"lng":         &graphql.Field{Type: graphql.Float},
		},
	})

	poiArgs := graphql.FieldConfigArgument{
		"name":        &graphql.ArgumentConfig{Type: graphql.String},
		"description": &graphql.ArgumentConfig{Type: graphql.String},
		"lat":         &graphql.ArgumentConfig{Type: graphql.Float},
		"lng":         &graphql.ArgumentConfig{Type: graphql.Float},
	}
	idArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"pois": &graphql.Field{
				Type:        graphql.NewList(poiType),
				Description: "List all points of interest ordered by id",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pois, err := deps.POIs.List(p.Context)
					if err != nil {
						return nil, gqlError(p, err)
					}
					result := make([]map[string]interface{}, 0, len(pois))
					for _, poi := range pois {
						result = append(result, poiToMap(poi))
					}
					return result, nil
				},
			},
			"poi": &graphql.Field{
				Type:        poiType,
				Description: "Get a point of interest by id",
				Args:        graphql.FieldConfigArgument{"id": idArg},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := gqlID(p)
					if err != nil {
						return nil, err
					}
					poi, err := deps.POIs.Get(p.Context, id)
					if err != nil {
						return nil, gqlError(p, err)
					}
					return poiToMap(*poi), nil
				},
			},
		},
	})

	updateArgs := graphql.FieldConfigArgument{"id": idArg}
	for k, v := range poiArgs {
		updateArgs[k] = v
	}

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPoi": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.ID),
				Description: "Create a point of interest and return its id",
				Args:        poiArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := deps.POIs.Create(p.Context, gqlInput(p))
					if err != nil {
						return nil, gqlError(p, err)
					}
					return strconv.FormatInt(id, 10), nil
				},
			},
			"updatePoi": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Replace name, description and location of a point of interest",
				Args:        updateArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := gqlID(p)
					if err != nil {
						return nil, err
					}
					if err := deps.POIs.Update(p.Context, id, gqlInput(p)); err != nil {
						return nil, gqlError(p, err)
					}
					return true, nil
				},
			},
			"deletePoi": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Delete a point of interest; deleting an unknown id succeeds",
				Args:        graphql.FieldConfigArgument{"id": idArg},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := gqlID(p)
					if err != nil {
						return nil, err
					}
					if err := deps.POIs.Delete(p.Context, id); err != nil {
						return nil, gqlError(p, err)
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
