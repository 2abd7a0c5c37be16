package handlers

// Reply-keyboard button labels. Menu routing matches these exactly, so a
// label embedded in a longer message does not trigger the command.
const (
	btnMakeOrder     = "🛒 Оформить заказ"
	btnMyOrders      = "📦 Мои заявки"
	btnDirectMessage = "✉️ Написать напрямую"
	btnEditData      = "✏️ Изменить данные"

	btnEditPhone   = "📞 Изменить телефон"
	btnEditAddress = "🏠 Изменить адрес"
	btnEditName    = "👤 Изменить имя"
	btnEditOrg     = "🏢 Изменить организацию"
	btnEditBack    = "↩️ Назад"
)

// User-facing texts.
const (
	textWelcomeNew = "✨ Добро пожаловать в нашего умного бота! ✨\n\n" +
		"Нажмите кнопку <b>Старт</b>, чтобы начать регистрацию."
	textWelcomeBack = "👋 Снова привет! Воспользуйся меню!"

	textAskName         = "Пожалуйста, введите своё имя:"
	textAskPhone        = "Отлично! Теперь введи номер телефона:"
	textAskAddress      = "Введи адрес:"
	textAskOrganization = "Укажи название организации (если есть). Если нет, напиши 'Нет':"

	textBadPhone   = "❌ Неверный формат номера. Используйте: +79991234567 (от 7 до 15 цифр)."
	textBadName    = "❌ Имя должно быть от 2 до 50 символов, только буквы, пробелы или дефис."
	textBadAddress = "❌ Адрес должен быть от 5 до 200 символов."

	textChooseDay      = "Выбери, на какой день хочешь оформить заказ:"
	textAskTime        = "Введите время в формате HH:MM (например, 09:00)."
	textBadTimeFormat  = "❌ Неверный формат. Введите время в формате HH:MM."
	textBadTimeRange   = "❌ Неверное время. Часы должны быть 0–23, минуты 0–59."
	textOrderCancelled = "Оформление заказа отменено."
	textQuotaExceeded  = "❌ У вас уже есть 3 активные заявки. Дождитесь их выполнения, прежде чем оформлять новую."

	textDirectAsk = "Введите текст сообщения, и мы перешлём его администратору.\n" +
		"После отправки вы получите уведомление, что админ получил сообщение."
	textDirectCancelled = "Отправка сообщения отменена."
	textDirectSent      = "✅ <b>Ваше сообщение отправлено администратору.</b>\n" +
		"Ожидайте, с вами свяжутся в ближайшее время!"

	textEditChoose     = "🔄 Выберите, что хотите изменить:"
	textEditAskPhone   = "Введите новый номер телефона:"
	textEditAskAddress = "Введите новый адрес:"
	textEditAskName    = "Введите новое имя:"
	textEditAskOrg     = "Введите новую организацию:"
	textEditBackDone   = "🏠 Возвращаюсь в главное меню."

	textMyOrdersEmpty  = "📭 У вас пока нет заявок."
	textOrderCantCancl = "❌ Исполненную заявку отменить нельзя."
	textOrderWithdrawn = "✅ Заявка отменена."

	textNotRegistered = "Пожалуйста, сначала зарегистрируйтесь: /start"
	textUserNotFound  = "Ошибка: пользователь не найден в базе."
	textGenericError  = "⚠️ Что-то пошло не так. Попробуйте ещё раз."

	textFallback = "🙃 Извините, я не понял вашу команду.\n" +
		"Попробуйте воспользоваться меню или введите /start для начала работы."

	textRateLimited    = "❗️ Пожалуйста, не спамьте!"
	textSessionExpired = "⏳ Вы долго не общались с ботом. Возвращаем вас в главное меню!"
)

// Admin texts.
const (
	textAdminPanel      = "🔐 <b>Админ-панель</b>"
	textAdminDenied     = "У вас нет прав администратора."
	textAdminAskName    = "Введите <b>имя пользователя</b> для новой заявки:"
	textAdminAskPhone   = "Введите <b>номер телефона</b> пользователя:"
	textAdminBadPhone   = "❌ Неверный формат номера. Введите снова:"
	textAdminAskAddress = "Введите <b>адрес</b> пользователя:"
	textAdminAskTime    = "Введите <b>предпочитаемое время</b> для заявки:"

	textAdminOrdersEmpty = "📭 Список заявок пуст"
	textOrderGone        = "Заявка не найдена или была удалена."

	textAdminHelp = "🛠 <b>Справка для администратора</b>\n\n" +
		"Здесь вы можете управлять заявками и пользователями.\n\n" +
		"🔹 <b>Как работать с ботом:</b>\n" +
		"1. Используйте кнопки в админ-панели для управления заявками.\n" +
		"2. Для добавления заявки введите данные пользователя и предпочитаемое время.\n" +
		"3. Вы можете изменять статус заявок через кнопки в списке заявок.\n\n" +
		"Если возникнут вопросы, обратитесь к разработчику."
)
