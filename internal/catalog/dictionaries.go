package catalog

var districts = mustDictionary([]Entry{
	{"Центр 🏙️", 36},
	{"Первая речка 🌉", 35},
	{"Патрокл 🌅", 34},
	{"Эгершельд 🌊", 33},
	{"Некрасовская 🏞️", 32},
	{"Толстого (Буссе) 🌄", 31},
	{"Третья рабочая ⚙️", 30},
	{"Снеговая падь ❄️", 29},
	{"Седанка 🌲", 28},
	{"Заря 🌇", 27},
	{"Столетие 📍", 26},
	{"Чуркин 🌁", 25},
	{"Трудовое 🏗️", 24},
	{"Фадеева 🚧", 23},
	{"Вторая речка 🛤️", 22},
	{"БАМ 🚧", 21},
	{"Садгород 🌿", 20},
	{"Чайка 🐦", 19},
	{"Океанская 🌊", 18},
	{"Гайдамак 🏘️", 17},
	{"Баляева 🧭", 16},
	{"64, 71 микрорайоны 🏢", 15},
	{"Луговая 🌾", 14},
	{"Тихая 🤫", 13},
	{"Снеговая ❄️", 12},
	{"Сахарный ключ 🍬", 11},
	{"Спутник 🛰️", 10},
	{"Борисенко 🛠️", 9},
	{"Трудовая 🧱", 8},
	{"Первореченский 📍", 7},
	{"Весенняя 🌸", 6},
	{"Пригород 🏞️", 5},
	{"Попова 🏝️", 4},
	{"Горностай 🐿️", 3},
	{"Русский 🏝️", 2},
	{"По-ов, Песчанный 🏖️", 1},
})

var apartmentTypes = mustDictionary([]Entry{
	{"🏢 Студия", 0},
	{"1️⃣ 1-комнатная", 1},
	{"2️⃣ 2-комнатная", 2},
	{"3️⃣ 3-комнатная", 3},
	{"4️⃣ 4 и более комнат", 4},
})

// Districts returns the shared district dictionary.
func Districts() *Dictionary { return districts }

// ApartmentTypes returns the shared apartment-type dictionary.
func ApartmentTypes() *Dictionary { return apartmentTypes }
