// Package domain models the device-registration records behind the dashboard.
//
// # Data Source
//
// Records arrive as a flat CSV export from the device provisioning system,
// one row per registered device. The columns the dashboard cares about:
//
//	region                Austrian federal state the device was registered in,
//	                      e.g. "Wien", "Tirol". Free text; unknown values are
//	                      tolerated downstream and mapped to fallback metadata.
//	product               Product line identifier, e.g. "A", "B".
//	device_created_day    Registration date in DD.MM.YYYY form with "."
//	                      separators, e.g. "05.01.2022". Anything else
//	                      (missing parts, non-numeric parts, calendar
//	                      rollover like "31.02.2022") counts as "no date".
//	device_type_category  Device class, e.g. "Mobile", "Tablet". Empty values
//	                      are aggregated under a literal "Unknown" bucket.
//
// Other columns are carried through untouched in the row's field map.
//
// # Day Offsets
//
// Every retained row is annotated with the whole-day distance from the
// dataset's earliest registration date. Offsets are computed with a fixed
// 24-hour day constant on UTC midnights, so daylight-saving transitions can
// never shift a bucket. [DayOffset] and [AddDays] are inverse-compatible:
// DayOffset(d, AddDays(d, n)) == n for any n >= 0.
package domain
