package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xaenox/flatprice-bot/internal/models"
	"github.com/xaenox/flatprice-bot/internal/pricing"
)

const (
	textWelcome = "👋 *Привет! Я помогу оценить квартиру во Владивостоке.*\n\n" +
		"Выберите действие:"

	textHelp = `Доступные команды:
/start - Главное меню
/estimate - Оценить квартиру
/cancel - Отменить оценку
/history - Последние оценки
/help - Эта справка

Бот задаёт пять вопросов: район, площадь, тип квартиры, этаж и этажность дома.`

	textAbout = "ℹ️ *О нас*\n\n" +
		"Бот оценивает стоимость квартир во Владивостоке по модели, обученной на объявлениях о продаже. " +
		"Оценка ориентировочная и не является офертой."

	textSupport = "❤️ *Поддержать проект*\n\n" +
		"Спасибо, что пользуетесь ботом! Расскажите о нём друзьям."

	textUnknownCommand = "Неизвестная команда. Используйте /help, чтобы увидеть список команд."
	textOnlyText       = "Пожалуйста, отправьте ответ текстом."
	textNoHistory      = "У вас пока нет оценок."
)

func formatHistory(estimates []*models.Estimate) string {
	var sb strings.Builder
	sb.WriteString("*Ваши последние оценки:*\n\n")
	for _, e := range estimates {
		q := pricing.Quote{Price: e.Price, Deviation: e.Deviation}
		fmt.Fprintf(&sb, "*%s*, %s\n", e.DistrictName, e.ApartmentTypeName)
		fmt.Fprintf(&sb, "%s м², этаж %d/%d\n",
			strconv.FormatFloat(e.Area, 'f', -1, 64), e.CurrentFloor, e.TotalFloors)
		fmt.Fprintf(&sb, "💰 %s ₽ ± %s ₽\n\n", q.PriceText(), q.DeviationText())
	}
	return strings.TrimRight(sb.String(), "\n")
}
