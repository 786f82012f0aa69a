// Package files discovers indicator exports in the data directory.
//
// World Bank bulk downloads unpack into one data file plus two metadata
// sheets:
//
//	API_AG.LND.AGRI.ZS_DS2_en_csv_v2_5358346.csv
//	Metadata_Country_API_AG.LND.AGRI.ZS_DS2_en_csv_v2_5358346.csv
//	Metadata_Indicator_API_AG.LND.AGRI.ZS_DS2_en_csv_v2_5358346.csv
//
// FindIndicatorFiles returns only the data files, and Unreferenced picks out
// the ones no configured report reads yet.
package files
