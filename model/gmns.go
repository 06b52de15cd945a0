package model

// Node ID ranges (spec.md §3 invariant 1): physical stations occupy
// [1_000_001, 1_499_999], service nodes start at 1_500_001 and grow
// without an enforced upper bound.
const (
	PhysicalNodeBase = 1_000_000
	PhysicalNodeMax  = 1_499_999
	ServiceNodeBase  = 1_500_000
)

// Link type codes (spec.md §3).
const (
	LinkTypeService     = 1
	LinkTypeBoarding    = 2
	LinkTypeTransferring = 3
)

const (
	LinkTypeNameService      = "service_links"
	LinkTypeNameBoarding     = "boarding_links"
	LinkTypeNameTransferring = "transferring_links"
)

const (
	TerminalOrigin       = "origin"
	TerminalDestination  = "destination"
	TerminalIntermediate = "intermediate"
)

// Node is a single row of node.csv. The same struct represents both
// physical station nodes and service nodes; NodeType distinguishes them
// and PhysicalNodeID either equals NodeID (physical node) or points back
// at the owning physical node (service node).
type Node struct {
	Name              string  `csv:"name"`
	NodeID            int     `csv:"node_id"`
	PhysicalNodeID    int     `csv:"physical_node_id"`
	X                 float64 `csv:"x_coord"`
	Y                 float64 `csv:"y_coord"`
	RouteType         int     `csv:"route_type"`
	RouteID           string  `csv:"route_id"`
	NodeType          string  `csv:"node_type"`
	DirectedRouteID   string  `csv:"directed_route_id"`
	DirectedServiceID string  `csv:"directed_service_id"`
	ZoneID            string  `csv:"zone_id"`
	AgencyName        string  `csv:"agency_name"`
	Geometry          string  `csv:"geometry"`
	TerminalFlag      string  `csv:"terminal_flag"`
	CtrlType          string  `csv:"ctrl_type"`
	AgentType         string  `csv:"agent_type"`
}

// Link is a single row of link.csv, in the 23-column order spec.md
// §4.7 specifies. StopSequence and DirectedRouteID are carried as
// strings because transfer links use "-1"/"" sentinels rather than a
// numeric stop_sequence or a real directed_route_id.
type Link struct {
	LinkID            int     `csv:"link_id"`
	FromNodeID        int     `csv:"from_node_id"`
	ToNodeID          int     `csv:"to_node_id"`
	FacilityType      string  `csv:"facility_type"`
	DirFlag           int     `csv:"dir_flag"`
	DirectedRouteID   string  `csv:"directed_route_id"`
	LinkType          int     `csv:"link_type"`
	LinkTypeName      string  `csv:"link_type_name"`
	Length            float64 `csv:"length"`
	Lanes             int     `csv:"lanes"`
	Capacity          int     `csv:"capacity"`
	FreeSpeed         float64 `csv:"free_speed"`
	Cost              float64 `csv:"cost"`
	VDFFftt1          float64 `csv:"VDF_fftt1"`
	VDFCap1           float64 `csv:"VDF_cap1"`
	VDFAlpha1         float64 `csv:"VDF_alpha1"`
	VDFBeta1          float64 `csv:"VDF_beta1"`
	VDFPenalty1       float64 `csv:"VDF_penalty1"`
	Geometry          string  `csv:"geometry"`
	AllowedUses       string  `csv:"VDF_allowed_uses1"`
	AgencyName        string  `csv:"agency_name"`
	StopSequence      string  `csv:"stop_sequence"`
	DirectedServiceID string  `csv:"directed_service_id"`
}

// PhysicalNodeType returns the node_type string for a physical station
// serving routes of the given type (spec.md §6, "route_type → physical
// node_type"). Strings are implementation-defined but stable.
func PhysicalNodeType(rt RouteType) string {
	switch rt {
	case RouteTypeTram:
		return "tram_node"
	case RouteTypeSubway:
		return "subway_node"
	case RouteTypeRail:
		return "rail_node"
	case RouteTypeBus:
		return "bus_node"
	case RouteTypeFerry:
		return "ferry_node"
	case RouteTypeCable:
		return "cable_node"
	case RouteTypeAerial:
		return "aerial_node"
	case RouteTypeFunicular:
		return "funicular_node"
	case RouteTypeTrolleybus:
		return "trolleybus_node"
	case RouteTypeMonorail:
		return "monorail_node"
	default:
		return "other_node"
	}
}

// ServiceNodeType mirrors PhysicalNodeType with the "_service_node"
// suffix convention (spec.md §6); bus maps to "bus_service_node".
func ServiceNodeType(rt RouteType) string {
	switch rt {
	case RouteTypeTram:
		return "tram_service_node"
	case RouteTypeSubway:
		return "subway_service_node"
	case RouteTypeRail:
		return "rail_service_node"
	case RouteTypeBus:
		return "bus_service_node"
	case RouteTypeFerry:
		return "ferry_service_node"
	case RouteTypeCable:
		return "cable_service_node"
	case RouteTypeAerial:
		return "aerial_service_node"
	case RouteTypeFunicular:
		return "funicular_service_node"
	case RouteTypeTrolleybus:
		return "trolleybus_service_node"
	case RouteTypeMonorail:
		return "monorail_service_node"
	default:
		return "other_service_node"
	}
}

// LinkFacilityType returns the facility_type string for service and
// boarding links of the given route type (spec.md §6). Transfer links
// always use the fixed "sta2sta" facility_type instead.
func LinkFacilityType(rt RouteType) string {
	switch rt {
	case RouteTypeTram:
		return "tram"
	case RouteTypeSubway:
		return "subway"
	case RouteTypeRail:
		return "rail"
	case RouteTypeBus:
		return "bus"
	case RouteTypeFerry:
		return "ferry"
	case RouteTypeCable:
		return "cable"
	case RouteTypeAerial:
		return "aerial"
	case RouteTypeFunicular:
		return "funicular"
	case RouteTypeTrolleybus:
		return "trolleybus"
	case RouteTypeMonorail:
		return "monorail"
	default:
		return "other"
	}
}

// AllowedUse returns the mode code used to populate VDF_allowed_uses1
// for service/boarding links of the given route type (spec.md §6).
func AllowedUse(rt RouteType) string {
	switch rt {
	case RouteTypeBus:
		return "b"
	case RouteTypeTrolleybus:
		return "b"
	case RouteTypeFerry:
		return "f"
	default:
		return "t"
	}
}

// transferPenalty holds the fixed (from_node_type, to_node_type) →
// transfer_penalty table from spec.md §6. Combinations not listed
// default to 0, as the spec permits.
var transferPenalty = map[[2]string]float64{
	{"bus_node", "rail_node"}:    5,
	{"rail_node", "bus_node"}:    5,
	{"bus_node", "subway_node"}:  5,
	{"subway_node", "bus_node"}:  5,
	{"subway_node", "rail_node"}: 3,
	{"rail_node", "subway_node"}: 3,
	{"tram_node", "bus_node"}:    2,
	{"bus_node", "tram_node"}:    2,
}

// TransferPenalty implements spec.md §6's "(from_node_type,
// to_node_type) → transfer_penalty" table.
func TransferPenalty(fromType, toType string) float64 {
	return transferPenalty[[2]string{fromType, toType}]
}

// TransferAllowedUse implements spec.md §6's "(from_node_type,
// to_node_type) → transfer_allowed_use" table. Every combination is a
// walking connection between stations.
func TransferAllowedUse(fromType, toType string) string {
	return "w"
}
