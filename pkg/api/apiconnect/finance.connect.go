package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/pkg/api"
)

// FinanceServiceName is the fully-qualified name of the FinanceService.
const FinanceServiceName = "smartfinance.v1.FinanceService"

// Procedure paths of the FinanceService.
const (
	FinanceServiceListEntitiesProcedure = "/smartfinance.v1.FinanceService/ListEntities"
	FinanceServiceSaveEntityProcedure   = "/smartfinance.v1.FinanceService/SaveEntity"
	FinanceServiceDeleteEntityProcedure = "/smartfinance.v1.FinanceService/DeleteEntity"
	FinanceServiceBulkReplaceProcedure  = "/smartfinance.v1.FinanceService/BulkReplace"
	FinanceServiceApproveBillsProcedure = "/smartfinance.v1.FinanceService/ApproveBills"
	FinanceServiceCreateSplitProcedure  = "/smartfinance.v1.FinanceService/CreateSplit"
	FinanceServiceGetSettingsProcedure  = "/smartfinance.v1.FinanceService/GetSettings"
	FinanceServiceSaveSettingsProcedure = "/smartfinance.v1.FinanceService/SaveSettings"
	FinanceServiceGetProfileProcedure   = "/smartfinance.v1.FinanceService/GetProfile"
	FinanceServiceSaveProfileProcedure  = "/smartfinance.v1.FinanceService/SaveProfile"
	FinanceServiceUpdateIncomeProcedure = "/smartfinance.v1.FinanceService/UpdateIncome"
	FinanceServiceWipeDataProcedure     = "/smartfinance.v1.FinanceService/WipeData"
	FinanceServiceImportCSVProcedure    = "/smartfinance.v1.FinanceService/ImportCSV"
	FinanceServiceExportCSVProcedure    = "/smartfinance.v1.FinanceService/ExportCSV"
	FinanceServiceGetDashboardProcedure = "/smartfinance.v1.FinanceService/GetDashboard"
)

// FinanceServiceHandler manages the stored collections, settings and profile, CSV
// transfer and the dashboard figures.
type FinanceServiceHandler interface {
	ListEntities(context.Context, *connect.Request[api.ListEntitiesRequest]) (*connect.Response[api.ListEntitiesResponse], error)
	SaveEntity(context.Context, *connect.Request[api.SaveEntityRequest]) (*connect.Response[api.SaveEntityResponse], error)
	DeleteEntity(context.Context, *connect.Request[api.DeleteEntityRequest]) (*connect.Response[api.DeleteEntityResponse], error)
	BulkReplace(context.Context, *connect.Request[api.BulkReplaceRequest]) (*connect.Response[api.BulkReplaceResponse], error)
	ApproveBills(context.Context, *connect.Request[api.ApproveBillsRequest]) (*connect.Response[api.ApproveBillsResponse], error)
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error)
	SaveSettings(context.Context, *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	SaveProfile(context.Context, *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error)
	UpdateIncome(context.Context, *connect.Request[api.UpdateIncomeRequest]) (*connect.Response[api.UpdateIncomeResponse], error)
	WipeData(context.Context, *connect.Request[api.WipeDataRequest]) (*connect.Response[api.WipeDataResponse], error)
	ImportCSV(context.Context, *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error)
	ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// NewFinanceServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewFinanceServiceHandler(svc FinanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(FinanceServiceListEntitiesProcedure, connect.NewUnaryHandler(FinanceServiceListEntitiesProcedure, svc.ListEntities, opts...))
	mux.Handle(FinanceServiceSaveEntityProcedure, connect.NewUnaryHandler(FinanceServiceSaveEntityProcedure, svc.SaveEntity, opts...))
	mux.Handle(FinanceServiceDeleteEntityProcedure, connect.NewUnaryHandler(FinanceServiceDeleteEntityProcedure, svc.DeleteEntity, opts...))
	mux.Handle(FinanceServiceBulkReplaceProcedure, connect.NewUnaryHandler(FinanceServiceBulkReplaceProcedure, svc.BulkReplace, opts...))
	mux.Handle(FinanceServiceApproveBillsProcedure, connect.NewUnaryHandler(FinanceServiceApproveBillsProcedure, svc.ApproveBills, opts...))
	mux.Handle(FinanceServiceCreateSplitProcedure, connect.NewUnaryHandler(FinanceServiceCreateSplitProcedure, svc.CreateSplit, opts...))
	mux.Handle(FinanceServiceGetSettingsProcedure, connect.NewUnaryHandler(FinanceServiceGetSettingsProcedure, svc.GetSettings, opts...))
	mux.Handle(FinanceServiceSaveSettingsProcedure, connect.NewUnaryHandler(FinanceServiceSaveSettingsProcedure, svc.SaveSettings, opts...))
	mux.Handle(FinanceServiceGetProfileProcedure, connect.NewUnaryHandler(FinanceServiceGetProfileProcedure, svc.GetProfile, opts...))
	mux.Handle(FinanceServiceSaveProfileProcedure, connect.NewUnaryHandler(FinanceServiceSaveProfileProcedure, svc.SaveProfile, opts...))
	mux.Handle(FinanceServiceUpdateIncomeProcedure, connect.NewUnaryHandler(FinanceServiceUpdateIncomeProcedure, svc.UpdateIncome, opts...))
	mux.Handle(FinanceServiceWipeDataProcedure, connect.NewUnaryHandler(FinanceServiceWipeDataProcedure, svc.WipeData, opts...))
	mux.Handle(FinanceServiceImportCSVProcedure, connect.NewUnaryHandler(FinanceServiceImportCSVProcedure, svc.ImportCSV, opts...))
	mux.Handle(FinanceServiceExportCSVProcedure, connect.NewUnaryHandler(FinanceServiceExportCSVProcedure, svc.ExportCSV, opts...))
	mux.Handle(FinanceServiceGetDashboardProcedure, connect.NewUnaryHandler(FinanceServiceGetDashboardProcedure, svc.GetDashboard, opts...))
	return "/" + FinanceServiceName + "/", mux
}

// FinanceServiceClient is a client for the FinanceService.
type FinanceServiceClient interface {
	ListEntities(context.Context, *connect.Request[api.ListEntitiesRequest]) (*connect.Response[api.ListEntitiesResponse], error)
	SaveEntity(context.Context, *connect.Request[api.SaveEntityRequest]) (*connect.Response[api.SaveEntityResponse], error)
	DeleteEntity(context.Context, *connect.Request[api.DeleteEntityRequest]) (*connect.Response[api.DeleteEntityResponse], error)
	BulkReplace(context.Context, *connect.Request[api.BulkReplaceRequest]) (*connect.Response[api.BulkReplaceResponse], error)
	ApproveBills(context.Context, *connect.Request[api.ApproveBillsRequest]) (*connect.Response[api.ApproveBillsResponse], error)
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error)
	SaveSettings(context.Context, *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	SaveProfile(context.Context, *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error)
	UpdateIncome(context.Context, *connect.Request[api.UpdateIncomeRequest]) (*connect.Response[api.UpdateIncomeResponse], error)
	WipeData(context.Context, *connect.Request[api.WipeDataRequest]) (*connect.Response[api.WipeDataResponse], error)
	ImportCSV(context.Context, *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error)
	ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

type financeServiceClient struct {
	listEntities *connect.Client[api.ListEntitiesRequest, api.ListEntitiesResponse]
	saveEntity   *connect.Client[api.SaveEntityRequest, api.SaveEntityResponse]
	deleteEntity *connect.Client[api.DeleteEntityRequest, api.DeleteEntityResponse]
	bulkReplace  *connect.Client[api.BulkReplaceRequest, api.BulkReplaceResponse]
	approveBills *connect.Client[api.ApproveBillsRequest, api.ApproveBillsResponse]
	createSplit  *connect.Client[api.CreateSplitRequest, api.CreateSplitResponse]
	getSettings  *connect.Client[api.GetSettingsRequest, api.GetSettingsResponse]
	saveSettings *connect.Client[api.SaveSettingsRequest, api.SaveSettingsResponse]
	getProfile   *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	saveProfile  *connect.Client[api.SaveProfileRequest, api.SaveProfileResponse]
	updateIncome *connect.Client[api.UpdateIncomeRequest, api.UpdateIncomeResponse]
	wipeData     *connect.Client[api.WipeDataRequest, api.WipeDataResponse]
	importCSV    *connect.Client[api.ImportCSVRequest, api.ImportCSVResponse]
	exportCSV    *connect.Client[api.ExportCSVRequest, api.ExportCSVResponse]
	getDashboard *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
}

// NewFinanceServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewFinanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FinanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &financeServiceClient{
		listEntities: connect.NewClient[api.ListEntitiesRequest, api.ListEntitiesResponse](httpClient, baseURL+FinanceServiceListEntitiesProcedure, opts...),
		saveEntity:   connect.NewClient[api.SaveEntityRequest, api.SaveEntityResponse](httpClient, baseURL+FinanceServiceSaveEntityProcedure, opts...),
		deleteEntity: connect.NewClient[api.DeleteEntityRequest, api.DeleteEntityResponse](httpClient, baseURL+FinanceServiceDeleteEntityProcedure, opts...),
		bulkReplace:  connect.NewClient[api.BulkReplaceRequest, api.BulkReplaceResponse](httpClient, baseURL+FinanceServiceBulkReplaceProcedure, opts...),
		approveBills: connect.NewClient[api.ApproveBillsRequest, api.ApproveBillsResponse](httpClient, baseURL+FinanceServiceApproveBillsProcedure, opts...),
		createSplit:  connect.NewClient[api.CreateSplitRequest, api.CreateSplitResponse](httpClient, baseURL+FinanceServiceCreateSplitProcedure, opts...),
		getSettings:  connect.NewClient[api.GetSettingsRequest, api.GetSettingsResponse](httpClient, baseURL+FinanceServiceGetSettingsProcedure, opts...),
		saveSettings: connect.NewClient[api.SaveSettingsRequest, api.SaveSettingsResponse](httpClient, baseURL+FinanceServiceSaveSettingsProcedure, opts...),
		getProfile:   connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+FinanceServiceGetProfileProcedure, opts...),
		saveProfile:  connect.NewClient[api.SaveProfileRequest, api.SaveProfileResponse](httpClient, baseURL+FinanceServiceSaveProfileProcedure, opts...),
		updateIncome: connect.NewClient[api.UpdateIncomeRequest, api.UpdateIncomeResponse](httpClient, baseURL+FinanceServiceUpdateIncomeProcedure, opts...),
		wipeData:     connect.NewClient[api.WipeDataRequest, api.WipeDataResponse](httpClient, baseURL+FinanceServiceWipeDataProcedure, opts...),
		importCSV:    connect.NewClient[api.ImportCSVRequest, api.ImportCSVResponse](httpClient, baseURL+FinanceServiceImportCSVProcedure, opts...),
		exportCSV:    connect.NewClient[api.ExportCSVRequest, api.ExportCSVResponse](httpClient, baseURL+FinanceServiceExportCSVProcedure, opts...),
		getDashboard: connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+FinanceServiceGetDashboardProcedure, opts...),
	}
}

func (c *financeServiceClient) ListEntities(ctx context.Context, req *connect.Request[api.ListEntitiesRequest]) (*connect.Response[api.ListEntitiesResponse], error) {
	return c.listEntities.CallUnary(ctx, req)
}

func (c *financeServiceClient) SaveEntity(ctx context.Context, req *connect.Request[api.SaveEntityRequest]) (*connect.Response[api.SaveEntityResponse], error) {
	return c.saveEntity.CallUnary(ctx, req)
}

func (c *financeServiceClient) DeleteEntity(ctx context.Context, req *connect.Request[api.DeleteEntityRequest]) (*connect.Response[api.DeleteEntityResponse], error) {
	return c.deleteEntity.CallUnary(ctx, req)
}

func (c *financeServiceClient) BulkReplace(ctx context.Context, req *connect.Request[api.BulkReplaceRequest]) (*connect.Response[api.BulkReplaceResponse], error) {
	return c.bulkReplace.CallUnary(ctx, req)
}

func (c *financeServiceClient) ApproveBills(ctx context.Context, req *connect.Request[api.ApproveBillsRequest]) (*connect.Response[api.ApproveBillsResponse], error) {
	return c.approveBills.CallUnary(ctx, req)
}

func (c *financeServiceClient) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	return c.createSplit.CallUnary(ctx, req)
}

func (c *financeServiceClient) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	return c.getSettings.CallUnary(ctx, req)
}

func (c *financeServiceClient) SaveSettings(ctx context.Context, req *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error) {
	return c.saveSettings.CallUnary(ctx, req)
}

func (c *financeServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *financeServiceClient) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	return c.saveProfile.CallUnary(ctx, req)
}

func (c *financeServiceClient) UpdateIncome(ctx context.Context, req *connect.Request[api.UpdateIncomeRequest]) (*connect.Response[api.UpdateIncomeResponse], error) {
	return c.updateIncome.CallUnary(ctx, req)
}

func (c *financeServiceClient) WipeData(ctx context.Context, req *connect.Request[api.WipeDataRequest]) (*connect.Response[api.WipeDataResponse], error) {
	return c.wipeData.CallUnary(ctx, req)
}

func (c *financeServiceClient) ImportCSV(ctx context.Context, req *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error) {
	return c.importCSV.CallUnary(ctx, req)
}

func (c *financeServiceClient) ExportCSV(ctx context.Context, req *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	return c.exportCSV.CallUnary(ctx, req)
}

func (c *financeServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}
