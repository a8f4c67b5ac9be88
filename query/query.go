package query

import (
	"context"
	"fmt"
	"strconv"
)

// Querier runs a GraphQL document on an authenticated session and decodes the data
// object into out. *session.Session satisfies it.
type Querier interface {
	Query(ctx context.Context, document string, out any) error
}

// Operation names embedded in every document
const (
	OpCurrentUser = "CurrentUser"
	OpPetList     = "PetList"
	OpBaseList    = "BaseList"
	OpPetLocation = "PetLocation"
	OpPetActivity = "PetActivity"
	OpPetRest     = "PetRest"
)

const (
	fragmentUserDetails = `fragment UserDetails on User { __typename id email firstName lastName phoneNumber }`

	fragmentDeviceDetails = `fragment DeviceDetails on Device { __typename id moduleId info ` +
		`operationParams { __typename mode ledEnabled ledOffAt } ` +
		`nextLocationUpdateExpectedBy ` +
		`ledColor { __typename ledColorCode hexCode name } ` +
		`availableLedColors { __typename ledColorCode hexCode name } ` +
		`lastConnectionState { __typename date ... on ConnectedToCellular { signalStrengthPercent } } }`

	fragmentPetProfile = `fragment PetProfile on Pet { __typename id name homeCityState yearOfBirth monthOfBirth dayOfBirth ` +
		`gender weight breed { __typename id name } photos { __typename first { __typename id image { __typename fullSize } } } ` +
		`device { ...DeviceDetails } }`

	fragmentBaseDetails = `fragment BaseDetails on ChargingBase { __typename baseId name online ` +
		`onlineQuality { __typename chargingBase } infoLastUpdated networkName position { __typename latitude longitude } }`

	fragmentPosition = `fragment PositionDetails on Position { __typename latitude longitude }`

	fragmentOngoingActivity = `fragment OngoingActivityDetails on OngoingActivity { __typename start areaName lastReportTimestamp ` +
		`... on OngoingWalk { positions { __typename date position { ...PositionDetails } } } ` +
		`... on OngoingRest { position { ...PositionDetails } place { __typename id name address } } }`

	fragmentActivitySummary = `fragment ActivitySummaryDetails on ActivitySummary { __typename start end totalSteps stepGoal totalDistance }`

	fragmentRestSummary = `fragment RestSummaryDetails on RestSummaryFeed { __typename cursor ` +
		`restSummaries { __typename start end data { __typename ... on ConcreteRestSummaryData { sleepAmounts { __typename type duration } } } } }`
)

// document builds a named query followed by the fragments it spreads
func document(op, body string, fragments ...string) string {
	doc := "query " + op + " " + body
	for _, f := range fragments {
		doc += " " + f
	}
	return doc
}

// petArg renders a pet id as a GraphQL string literal
func petArg(petID string) string {
	return strconv.Quote(petID)
}

// CurrentUserDocument returns the document fetching the logged-in user
func CurrentUserDocument() string {
	return document(OpCurrentUser, `{ currentUser { ...UserDetails } }`, fragmentUserDetails)
}

// PetListDocument returns the document fetching the pets of every household
func PetListDocument() string {
	return document(OpPetList,
		`{ currentUser { __typename userHouseholds { __typename household { __typename pets { ...PetProfile } } } } }`,
		fragmentPetProfile, fragmentDeviceDetails)
}

// BaseListDocument returns the document fetching the bases of every household
func BaseListDocument() string {
	return document(OpBaseList,
		`{ currentUser { __typename userHouseholds { __typename household { __typename bases { ...BaseDetails } } } } }`,
		fragmentBaseDetails)
}

// PetLocationDocument returns the document fetching the ongoing activity of a pet
func PetLocationDocument(petID string) string {
	return document(OpPetLocation,
		`{ pet (id: `+petArg(petID)+`) { ongoingActivity { ...OngoingActivityDetails } } }`,
		fragmentOngoingActivity, fragmentPosition)
}

// PetActivityDocument returns the document fetching the activity summaries of a pet
func PetActivityDocument(petID string) string {
	return document(OpPetActivity,
		`{ pet (id: `+petArg(petID)+`) { `+
			`dailyStat: currentActivitySummary (period: DAILY) { ...ActivitySummaryDetails } `+
			`weeklyStat: currentActivitySummary (period: WEEKLY) { ...ActivitySummaryDetails } `+
			`monthlyStat: currentActivitySummary (period: MONTHLY) { ...ActivitySummaryDetails } } }`,
		fragmentActivitySummary)
}

// PetRestDocument returns the document fetching the rest summaries of a pet
func PetRestDocument(petID string) string {
	return document(OpPetRest,
		`{ pet (id: `+petArg(petID)+`) { `+
			`dailyStat: restSummaryFeed(cursor: null, period: DAILY, limit: 1) { ...RestSummaryDetails } `+
			`weeklyStat: restSummaryFeed(cursor: null, period: WEEKLY, limit: 1) { ...RestSummaryDetails } `+
			`monthlyStat: restSummaryFeed(cursor: null, period: MONTHLY, limit: 1) { ...RestSummaryDetails } } }`,
		fragmentRestSummary)
}

type currentUserData struct {
	CurrentUser *UserPayload `json:"currentUser"`
}

type householdsData struct {
	CurrentUser *struct {
		UserHouseholds []HouseholdEntry `json:"userHouseholds"`
	} `json:"currentUser"`
}

type locationData struct {
	Pet *struct {
		OngoingActivity *LocationPayload `json:"ongoingActivity"`
	} `json:"pet"`
}

type activityData struct {
	Pet *ActivityStatsPayload `json:"pet"`
}

type restData struct {
	Pet *RestStatsPayload `json:"pet"`
}

// GetCurrentUser fetches the logged-in user
func GetCurrentUser(ctx context.Context, q Querier) (*UserPayload, error) {
	var data currentUserData
	if err := q.Query(ctx, CurrentUserDocument(), &data); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if data.CurrentUser == nil {
		return nil, fmt.Errorf("failed to get current user: %w", ErrMissingData)
	}
	return data.CurrentUser, nil
}

// GetPetList fetches every household with its pets
func GetPetList(ctx context.Context, q Querier) ([]HouseholdEntry, error) {
	households, err := getHouseholds(ctx, q, PetListDocument())
	if err != nil {
		return nil, fmt.Errorf("failed to get pet list: %w", err)
	}
	return households, nil
}

// GetBaseList fetches every household with its bases
func GetBaseList(ctx context.Context, q Querier) ([]HouseholdEntry, error) {
	households, err := getHouseholds(ctx, q, BaseListDocument())
	if err != nil {
		return nil, fmt.Errorf("failed to get base list: %w", err)
	}
	return households, nil
}

func getHouseholds(ctx context.Context, q Querier, doc string) ([]HouseholdEntry, error) {
	var data householdsData
	if err := q.Query(ctx, doc, &data); err != nil {
		return nil, err
	}
	if data.CurrentUser == nil {
		return nil, ErrMissingData
	}
	return data.CurrentUser.UserHouseholds, nil
}

// GetCurrentPetLocation fetches the ongoing activity of a pet
func GetCurrentPetLocation(ctx context.Context, q Querier, petID string) (*LocationPayload, error) {
	var data locationData
	if err := q.Query(ctx, PetLocationDocument(petID), &data); err != nil {
		return nil, fmt.Errorf("failed to get location of pet %s: %w", petID, err)
	}
	if data.Pet == nil || data.Pet.OngoingActivity == nil {
		return nil, fmt.Errorf("failed to get location of pet %s: %w", petID, ErrMissingData)
	}
	return data.Pet.OngoingActivity, nil
}

// GetCurrentPetStats fetches the daily, weekly and monthly activity summaries of a pet
func GetCurrentPetStats(ctx context.Context, q Querier, petID string) (*ActivityStatsPayload, error) {
	var data activityData
	if err := q.Query(ctx, PetActivityDocument(petID), &data); err != nil {
		return nil, fmt.Errorf("failed to get stats of pet %s: %w", petID, err)
	}
	if data.Pet == nil {
		return nil, fmt.Errorf("failed to get stats of pet %s: %w", petID, ErrMissingData)
	}
	return data.Pet, nil
}

// GetCurrentPetRestStats fetches the daily, weekly and monthly rest summaries of a pet
func GetCurrentPetRestStats(ctx context.Context, q Querier, petID string) (*RestStatsPayload, error) {
	var data restData
	if err := q.Query(ctx, PetRestDocument(petID), &data); err != nil {
		return nil, fmt.Errorf("failed to get rest stats of pet %s: %w", petID, err)
	}
	if data.Pet == nil {
		return nil, fmt.Errorf("failed to get rest stats of pet %s: %w", petID, ErrMissingData)
	}
	return data.Pet, nil
}
