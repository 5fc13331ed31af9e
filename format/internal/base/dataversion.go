package base

const (
	// DataVersion1_13_2 is assumed for v1 containers, which carry no data version.
	DataVersion1_13_2 = 1631
	// DefaultDataVersion is the live data version used when none is configured.
	DefaultDataVersion = 4665
)

// GameVersion returns the Java Edition release that introduced dataVersion,
// or "" when it predates data versions.
func GameVersion(dataVersion int) string {
	switch {
	case dataVersion >= 4665:
		return "1.21.11"
	case dataVersion >= 4556:
		return "1.21.10"
	case dataVersion >= 4554:
		return "1.21.9"
	case dataVersion >= 4440:
		return "1.21.8"
	case dataVersion >= 4438:
		return "1.21.7"
	case dataVersion >= 4435:
		return "1.21.6"
	case dataVersion >= 4325:
		return "1.21.5"
	case dataVersion >= 4189:
		return "1.21.4"
	case dataVersion >= 4082:
		return "1.21.3"
	case dataVersion >= 4080:
		return "1.21.2"
	case dataVersion >= 3955:
		return "1.21.1"
	case dataVersion >= 3953:
		return "1.21"
	case dataVersion >= 3839:
		return "1.20.6"
	case dataVersion >= 3837:
		return "1.20.5"
	case dataVersion >= 3700:
		return "1.20.4"
	case dataVersion >= 3578:
		return "1.20.2"
	case dataVersion >= 3465:
		return "1.20.1"
	case dataVersion >= 3463:
		return "1.20"
	case dataVersion >= 3337:
		return "1.19.4"
	case dataVersion >= 3218:
		return "1.19.3"
	case dataVersion >= 3120:
		return "1.19.2"
	case dataVersion >= 3117:
		return "1.19.1"
	case dataVersion >= 3105:
		return "1.19"
	case dataVersion >= 2975:
		return "1.18.2"
	case dataVersion >= 2860:
		return "1.18"
	case dataVersion >= 2730:
		return "1.17.1"
	case dataVersion >= 2724:
		return "1.17"
	case dataVersion >= 2586:
		return "1.16.5"
	case dataVersion >= 2566:
		return "1.16"
	case dataVersion >= 2230:
		return "1.15.2"
	case dataVersion >= 2225:
		return "1.15"
	case dataVersion >= 1976:
		return "1.14.4"
	case dataVersion >= 1952:
		return "1.14"
	case dataVersion >= 1631:
		return "1.13.2"
	case dataVersion >= 1628:
		return "1.13.1"
	case dataVersion >= 1519:
		return "1.13"
	case dataVersion >= 1343:
		return "1.12.2"
	case dataVersion >= 1241:
		return "1.12.1"
	case dataVersion >= 1139:
		return "1.12"
	case dataVersion >= 922:
		return "1.11.2"
	case dataVersion >= 921:
		return "1.11.1"
	case dataVersion >= 819:
		return "1.11"
	case dataVersion >= 512:
		return "1.10.2"
	case dataVersion >= 511:
		return "1.10.1"
	case dataVersion >= 510:
		return "1.10"
	case dataVersion >= 184:
		return "1.9.4"
	case dataVersion >= 183:
		return "1.9.3"
	case dataVersion >= 176:
		return "1.9.2"
	case dataVersion >= 175:
		return "1.9.1"
	case dataVersion >= 169:
		return "1.9"
	default:
		return ""
	}
}
