package dialog

import (
	"fmt"

	"github.com/xaenox/flatprice-bot/internal/pricing"
)

const (
	textAskDistrict      = "🌍 *Выберите район квартиры:*"
	textAskArea          = "Введите площадь квартиры (м²):"
	textAskApartmentType = "🏘️ *Выберите тип квартиры:*"
	textAskCurrentFloor  = "🏢 Введите этаж квартиры:"
	textAskTotalFloors   = "🏗️ Введите общее количество этажей в доме:"

	textUseButtons   = "❌ Выберите вариант с помощью кнопок."
	textTypeValue    = "⚠️ Введите значение сообщением."
	textCancelled    = "❌ Оценка отменена. Напишите /start, чтобы начать заново."
	textNothingToDo  = "Сейчас нет активной оценки."
	textIdle         = "Нажмите «💰 Оценить квартиру», чтобы начать оценку."
	textFailed       = "😔 Не удалось рассчитать стоимость. Попробуйте позже."
	textDistrictDone = "📍 Выбран район: *%s*\n\n%s"
)

func didYouMean(label string) string {
	return fmt.Sprintf("Возможно, вы имели в виду «%s»?", label)
}

func quoteText(q pricing.Quote) string {
	return fmt.Sprintf("💰 *Оценка стоимости:* *%s ₽*\n± %s ₽", q.PriceText(), q.DeviationText())
}
