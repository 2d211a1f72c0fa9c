package specializations

// Specialization es una etiqueta del vocabulario compartido entre perfiles.
type Specialization struct {
	ID               string
	Title            string
	ShortDescription string
}

// Seed devuelve el vocabulario inicial; lo usan la migración y el repo in-memory.
func Seed() []Specialization {
	return []Specialization{
		{ID: "aggression", Title: "Agresja", ShortDescription: "Problemy związane z agresywnymi zachowaniami, zarówno wobec ludzi, jak i innych zwierząt."},
		{ID: "anxiety", Title: "Lęk i niepokój", ShortDescription: "Zaburzenia lękowe, fobie, a także ogólny niepokój."},
		{ID: "leash_training", Title: "Trening smyczy", ShortDescription: "Eliminacja ciągnięcia i nauka właściwego zachowania na smyczy."},
		{ID: "socialization", Title: "Socjalizacja", ShortDescription: "Wsparcie w nauce interakcji ze zwierzętami i ludźmi."},
		{ID: "excessive_barking", Title: "Nadmierne szczekanie", ShortDescription: "Kontrola i redukcja nadmiernej wokalizacji."},
		{ID: "destructiveness", Title: "Zachowania destrukcyjne", ShortDescription: "Niszczenie przedmiotów, mebli czy otoczenia."},
		{ID: "separation_anxiety", Title: "Lęk separacyjny", ShortDescription: "Stres i destrukcyjne zachowania pod nieobecność właściciela."},
		{ID: "resource_guarding", Title: "Obrona zasobów", ShortDescription: "Agresywna reakcja związana z ochroną jedzenia czy zabawek."},
		{ID: "hyperactivity", Title: "Nadpobudliwość", ShortDescription: "Problemy z kontrolą energii i impulsywnością."},
		{ID: "obedience_training", Title: "Szkolenie posłuszeństwa", ShortDescription: "Trening dyscypliny i poprawy posłuszeństwa."},
		{ID: "clicker_training", Title: "Trening klikera", ShortDescription: "Metoda szkoleniowa oparta na pozytywnym wzmocnieniu z użyciem klikera."},
	}
}
