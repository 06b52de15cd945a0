package build_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/build"
	"github.com/transitmodel/gtfs2gmns/model"
)

// twoStopScenario builds the enriched frame for spec.md §8 scenario B:
// one bus trip, two stops 0.001deg apart, arrivals 07:10 and 07:20.
func twoStopScenario() []build.Enriched {
	return []build.Enriched{
		{
			TripID: "T1", StopID: "S1", StopSequence: 1,
			ArrivalMin: 430, DepartureMin: 430,
			TerminalFlag: model.TerminalOrigin, StopSequenceLabel: "abc",
			RouteID: "R1", RouteType: model.RouteTypeBus, DirectionID: 0,
			DirectedRouteID: "R1.2", DirectedRouteStopID: "R1.2.S1",
			DirectedServiceStopID: "R1.2.S1:abc", DirectedServiceID: "R1.2:abc",
			StopName: "Stop One", StopLat: 0.000, StopLon: 0.000, AgencyName: "Test Transit",
		},
		{
			TripID: "T1", StopID: "S2", StopSequence: 2,
			ArrivalMin: 440, DepartureMin: 440,
			TerminalFlag: model.TerminalDestination, StopSequenceLabel: "abc",
			RouteID: "R1", RouteType: model.RouteTypeBus, DirectionID: 0,
			DirectedRouteID: "R1.2", DirectedRouteStopID: "R1.2.S2",
			DirectedServiceStopID: "R1.2.S2:abc", DirectedServiceID: "R1.2:abc",
			StopName: "Stop Two", StopLat: 0.000, StopLon: 0.001, AgencyName: "Test Transit",
		},
	}
}

func TestBuildNodesTwoStopLine(t *testing.T) {
	nodes, err := build.BuildNodes(twoStopScenario())
	require.NoError(t, err)
	require.Len(t, nodes.Table, 4)

	require.Equal(t, 1_000_001, nodes.PhysicalNodeIDByStop["S1"])
	require.Equal(t, 1_000_002, nodes.PhysicalNodeIDByStop["S2"])
	require.Equal(t, 1_500_001, nodes.ServiceNodeIDByName["R1.2.S1:abc"])
	require.Equal(t, 1_500_002, nodes.ServiceNodeIDByName["R1.2.S2:abc"])

	for _, n := range nodes.Table {
		if n.NodeID == n.PhysicalNodeID {
			require.Equal(t, "bus_node", n.NodeType)
		} else {
			require.Equal(t, "bus_service_node", n.NodeType)
			require.NotEqual(t, n.NodeID, n.PhysicalNodeID)
		}
	}
}

func TestBuildServiceAndBoardingLinksTwoStopLine(t *testing.T) {
	enriched := twoStopScenario()
	nodes, err := build.BuildNodes(enriched)
	require.NoError(t, err)

	links := build.BuildServiceAndBoardingLinks(enriched, nodes, 420, 480)

	var service []model.Link
	var boarding []model.Link
	for _, l := range links {
		switch l.LinkType {
		case model.LinkTypeService:
			service = append(service, l)
		case model.LinkTypeBoarding:
			boarding = append(boarding, l)
		}
	}

	require.Len(t, service, 1)
	require.Equal(t, float64(10), service[0].VDFFftt1)
	require.Equal(t, 1, service[0].Lanes)

	require.Len(t, boarding, 4)
	var inboundFftt, outboundCount int
	for _, l := range boarding {
		if l.VDFFftt1 == 1 {
			outboundCount++
		}
		if l.VDFFftt1 == 10 {
			inboundFftt++
		}
	}
	require.Equal(t, 2, outboundCount)
	require.Equal(t, 2, inboundFftt)
}

func TestBuildTransferLinksNone(t *testing.T) {
	enriched := twoStopScenario()
	nodes, err := build.BuildNodes(enriched)
	require.NoError(t, err)

	var physical []model.Node
	for _, n := range nodes.Table {
		if n.NodeID == n.PhysicalNodeID {
			physical = append(physical, n)
		}
	}

	// Same route & agency: the two stops never produce a transfer link.
	transfers := build.BuildTransferLinks(physical)
	require.Empty(t, transfers)
}
