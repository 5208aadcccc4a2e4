package models

// ParamEdge is one endpoint→parameter edge in the Endpoint Graph.
type ParamEdge struct {
	Endpoint   string
	Parameter  string
	Provenance EdgeProvenance
}

// ParamMarkers are the per-parameter heuristic markers the graph tracks.
type ParamMarkers struct {
	Reflectable    bool
	InjectableSQL  bool
	InjectableCmd  bool
	InjectableSSRF bool
}
