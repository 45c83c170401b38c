package cosmo

const (
	// MpcMks is a megaparsec in meters.
	MpcMks = 3.08567758149e22
	// GMks is Newton's constant in m^3 kg^-1 s^-2.
	GMks = 6.67408e-11
	// MSunMks is a solar mass in kg.
	MSunMks = 1.98847e30
	// SpeedOfLightKms is c in km/s.
	SpeedOfLightKms = 299792.458
	// HubbleDistance is c / H0 in Mpc/h.
	HubbleDistance = SpeedOfLightKms / 100
)
