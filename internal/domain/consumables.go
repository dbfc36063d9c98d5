package domain

// Tarot is a consumable card drawn from booster packs.
type Tarot int

const (
	TarotFool Tarot = iota
	TarotMagician
	TarotHighPriestess
	TarotEmpress
	TarotEmperor
	TarotHierophant
	TarotLovers
	TarotChariot
	TarotJustice
	TarotHermit
	TarotWheelOfFortune
	TarotStrength
	TarotHangedMan
	TarotDeath
	TarotTemperance
	TarotDevil
	TarotTower
	TarotStar
	TarotMoon
	TarotSun
	TarotJudgement
	TarotWorld
)

var tarotNames = []string{
	"Fool", "Magician", "High Priestess", "Empress", "Emperor", "Hierophant",
	"Lovers", "Chariot", "Justice", "Hermit", "Wheel of Fortune", "Strength",
	"Hanged Man", "Death", "Temperance", "Devil", "Tower", "Star",
	"Moon", "Sun", "Judgement", "World",
}
var tarotIndex = buildIndex[Tarot](tarotNames)

func (t Tarot) String() string {
	if int(t) < 0 || int(t) >= len(tarotNames) {
		return "Unknown"
	}
	return tarotNames[t]
}

// ParseTarot resolves a case-insensitive tarot name.
func ParseTarot(name string) (Tarot, bool) { return foldLookup(tarotIndex, name) }

// NumTarots is the fixed tarot count.
const NumTarots = 22

var tarotPool = equalPool(NumTarots, func(i int) Tarot { return Tarot(i) })

// TarotPool returns the shared immutable tarot pool.
func TarotPool() *WeightedPool[Tarot] { return tarotPool }

// Planet is a consumable card drawn from booster packs.
type Planet int

const (
	PlanetMercury Planet = iota
	PlanetVenus
	PlanetEarth
	PlanetMars
	PlanetJupiter
	PlanetSaturn
	PlanetUranus
	PlanetNeptune
	PlanetPluto
	PlanetPlanetX
	PlanetCeres
	PlanetEris
)

var planetNames = []string{
	"Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn",
	"Uranus", "Neptune", "Pluto", "Planet X", "Ceres", "Eris",
}
var planetIndex = buildIndex[Planet](planetNames)

func (p Planet) String() string {
	if int(p) < 0 || int(p) >= len(planetNames) {
		return "Unknown"
	}
	return planetNames[p]
}

// ParsePlanet resolves a case-insensitive planet name.
func ParsePlanet(name string) (Planet, bool) { return foldLookup(planetIndex, name) }

// NumPlanets is the fixed planet count.
const NumPlanets = 12

var planetPool = equalPool(NumPlanets, func(i int) Planet { return Planet(i) })

// PlanetPool returns the shared immutable planet pool.
func PlanetPool() *WeightedPool[Planet] { return planetPool }

// Spectral is a consumable card drawn from booster packs, rarer than
// tarot/planet cards.
type Spectral int

const (
	SpectralFamiliar Spectral = iota
	SpectralGrim
	SpectralIncantation
	SpectralTalisman
	SpectralAura
	SpectralWraith
	SpectralSigil
	SpectralOuija
	SpectralEcto
	SpectralImmolate
	SpectralAnkh
	SpectralDejaVu
	SpectralHex
	SpectralTrance
	SpectralMedium
	SpectralCryptid
	SpectralSoul
	SpectralBlackHole
)

var spectralNames = []string{
	"Familiar", "Grim", "Incantation", "Talisman", "Aura", "Wraith",
	"Sigil", "Ouija", "Ecto", "Immolate", "Ankh", "Deja Vu",
	"Hex", "Trance", "Medium", "Cryptid", "Soul", "Black Hole",
}
var spectralIndex = buildIndex[Spectral](spectralNames)

func (s Spectral) String() string {
	if int(s) < 0 || int(s) >= len(spectralNames) {
		return "Unknown"
	}
	return spectralNames[s]
}

// ParseSpectral resolves a case-insensitive spectral name.
func ParseSpectral(name string) (Spectral, bool) { return foldLookup(spectralIndex, name) }

// NumSpectrals is the fixed spectral count.
const NumSpectrals = 18

var spectralPool = equalPool(NumSpectrals, func(i int) Spectral { return Spectral(i) })

// SpectralPool returns the shared immutable spectral pool.
func SpectralPool() *WeightedPool[Spectral] { return spectralPool }
