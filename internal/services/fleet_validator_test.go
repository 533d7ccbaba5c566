package services

import (
	"fmt"
	"testing"

	"mdvrp-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(lat, lng float64) domain.Coordinates { return domain.Coordinates{Lat: lat, Lon: lng} }

func TestFleetValidatorCleanScenario(t *testing.T) {
	report := NewFleetValidator(
		[]domain.Customer{{Name: "C1", Location: at(54.40, 18.50), Demand: 40}, {Name: "C2", Location: at(54.45, 18.55), Demand: 40}},
		[]domain.Depot{{Name: "D", Location: at(54.35, 18.64), Capacity: 100}},
		[]domain.Vehicle{{Capacity: 100}},
	).ValidateAll()

	assert.True(t, report.OK())
	assert.NotNil(t, report)
}

func TestFleetValidatorCoordinateFailures(t *testing.T) {
	report := NewFleetValidator(
		[]domain.Customer{{Name: "Far", Location: at(200, 10)}, {Name: "Null Island", Location: at(0, 0)}},
		[]domain.Depot{{Name: "Mid Pacific", Location: at(0, -150)}},
		nil,
	).ValidateAll()

	assert.Equal(t, ValidationReport{
		`Customer "Far": Latitude 200 is out of range (-90 to 90)`,
		`Customer "Null Island": Coordinates (0,0) are in the ocean off Africa`,
		`Depot "Mid Pacific": Coordinates (0.0000, -150.0000) appear to be in the ocean or inaccessible area`,
	}, report)
}

func TestFleetValidatorTooCloseEmitsBothDirections(t *testing.T) {
	report := NewFleetValidator(
		[]domain.Customer{{Name: "A", Location: at(52.0, 4.0)}},
		[]domain.Depot{{Name: "B", Location: at(52.0, 4.0005)}},
		nil,
	).ValidateAll()

	assert.Equal(t, ValidationReport{
		`Customer "A" is too close to Depot "B"`,
		`Depot "B" is too close to Customer "A"`,
	}, report)
}

func TestFleetValidatorInsertsNamesVerbatim(t *testing.T) {
	report := NewFleetValidator(
		[]domain.Customer{{Name: `Bar "Pod Kogutem"`, Location: at(52.0, 4.0)}},
		[]domain.Depot{{Name: `Hub\North`, Location: at(52.0, 4.0005)}},
		nil,
	).ValidateAll()

	assert.Equal(t, ValidationReport{
		`Customer "Bar "Pod Kogutem"" is too close to Depot "Hub\North"`,
		`Depot "Hub\North" is too close to Customer "Bar "Pod Kogutem""`,
	}, report)

	report = NewFleetValidator([]domain.Customer{{Name: `Bar "Pod Kogutem"`, Location: at(100, 0)}}, nil, nil).ValidateAll()
	assert.Equal(t, ValidationReport{`Customer "Bar "Pod Kogutem"": Latitude 100 is out of range (-90 to 90)`}, report)
}

func TestFleetValidatorSuppressesExactDuplicates(t *testing.T) {
	c := domain.Customer{Name: "Twin", Location: at(100, 0)}
	report := NewFleetValidator([]domain.Customer{c, c}, nil, nil).ValidateAll()

	require.Len(t, report, 2)
	assert.Equal(t, `Customer "Twin": Latitude 100 is out of range (-90 to 90)`, report[0])
	assert.Equal(t, `Customer "Twin" is too close to Customer "Twin"`, report[1])
}

func TestFleetValidatorDemandMessageIffDemandExceedsNonZeroCapacity(t *testing.T) {
	const msg = "Total demand %v is greater than total capacity %v"

	cases := []struct {
		demand   []float64
		capacity []float64
	}{
		{demand: []float64{40, 40}, capacity: []float64{100}},
		{demand: []float64{60, 50}, capacity: []float64{100}},
		{demand: []float64{50, 50}, capacity: []float64{60, 40}},
		{demand: []float64{10}, capacity: nil},
		{demand: []float64{10}, capacity: []float64{0, 0}},
		{demand: []float64{0.5, 0.25}, capacity: []float64{0.5}},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			var customers []domain.Customer
			var d float64
			for j, v := range tc.demand {
				customers = append(customers, domain.Customer{Name: fmt.Sprintf("C%d", j), Location: at(50+float64(j), 10), Demand: v})
				d += v
			}
			var vehicles []domain.Vehicle
			var c float64
			for _, v := range tc.capacity {
				vehicles = append(vehicles, domain.Vehicle{Capacity: v})
				c += v
			}

			report := NewFleetValidator(customers, nil, vehicles).ValidateAll()
			want := fmt.Sprintf(msg, d, c)
			if d > c && c > 0 {
				assert.Contains(t, report, want)
			} else {
				assert.NotContains(t, report, want)
				assert.Empty(t, report)
			}
		})
	}
}

func TestFleetValidatorSupplyCheckAfterDemand(t *testing.T) {
	report := NewFleetValidator(
		[]domain.Customer{{Name: "C", Location: at(50, 10), Demand: 150}},
		[]domain.Depot{{Name: "D", Location: at(51, 10), Capacity: 200}},
		[]domain.Vehicle{{Capacity: 100}},
	).ValidateAll()

	assert.Equal(t, ValidationReport{
		"Total demand 150 is greater than total capacity 100",
		"Total supply 200 is greater than total capacity 100",
	}, report)
}

func TestFleetValidatorDoesNotMutateInputsAndIsRepeatable(t *testing.T) {
	customers := []domain.Customer{{Name: "A", Location: at(52.0, 4.0)}, {Name: "B", Location: at(52.0, 4.0001)}}
	snapshot := append([]domain.Customer(nil), customers...)

	v := NewFleetValidator(customers, nil, nil)
	first := v.ValidateAll()
	second := v.ValidateAll()

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, customers)

	first[0] = "changed"
	assert.NotEqual(t, first[0], v.ValidateAll()[0])
}

type everythingOcean struct{}

func (everythingOcean) IsLikelyOnLand(lat, lng float64) bool { return false }

func TestFleetValidatorCustomLandClassifier(t *testing.T) {
	report := NewFleetValidator(
		[]domain.Customer{{Name: "Inland", Location: at(50, 10)}}, nil, nil,
	).WithLandClassifier(everythingOcean{}).ValidateAll()

	assert.Equal(t, ValidationReport{
		`Customer "Inland": Coordinates (50.0000, 10.0000) appear to be in the ocean or inaccessible area`,
	}, report)
}
