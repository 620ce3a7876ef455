package shopify

// Metaobject is a typed custom-data record in the Shopify Admin API,
// addressed by a type name and an ordered field list.
type Metaobject struct {
	Type   string  `json:"type"`
	Fields []Field `json:"fields"`
}

// Field is one key/value pair of a metaobject. Order is significant to the
// metaobject definition, so fields are a slice, not a map.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// createRequest is the wire envelope for a metaobject create call
type createRequest struct {
	Metaobject Metaobject `json:"metaobject"`
}

// createResponse is the success envelope of a metaobject create call
type createResponse struct {
	Metaobject struct {
		ID int64 `json:"id"`
	} `json:"metaobject"`
}

// MetaobjectResult is the outcome of a successful metaobject create.
type MetaobjectResult struct {
	ID int64
}

// graphqlRequest is the wire envelope for a GraphQL passthrough call
type graphqlRequest struct {
	Query     string      `json:"query"`
	Variables interface{} `json:"variables"`
}
