package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	WriteConfigError
	ReadConfigError
	CountriesDataError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBUnknownDriverError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaIndexError
	SchemaOptimizeError

	// Fetch errors
	FetchRequestError
	FetchStatusError
	FetchWriteError
	FetchUnzipError
	FetchPayloadError

	// Parse errors
	ParseOpenFileError
	ParseReadError

	// Reconcile errors
	ReconcileProbeError
	ReconcileInsertError
	ReconcileUpdateError
	ReconcileDeleteError

	// Admin hierarchy errors
	AdminUpsertError
	AdminReadStoreError

	// Import run errors
	TrackStartError
	TrackUpdateError
	TrackClosedError
	TrackReadError

	// Import errors
	ImportCancelledError
	ImportFailedError

	// Sync errors
	SyncCountriesError
	SyncStampError
	SyncAllCountriesFailedError
	SyncDailyError

	// Country registry errors
	CountryUnknownError
	CountryUpdateError
	CountryRemoveError
	CountryReadError

	// Hierarchy errors
	HierarchyPlaceNotFoundError
	HierarchyQueryError

	// Search errors
	SearchOptionsError
	SearchQueryError
	SearchCacheError
)
